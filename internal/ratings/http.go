package ratings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xaitan80/footbase/internal/auth"
)

// RegisterRoutes mounts rating endpoints under the match resource.
func RegisterRoutes(r *gin.Engine, repo *Repo, requireAuth gin.HandlerFunc) {
	api := r.Group("/api")

	api.GET("/matches/:id/rating", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		sum, err := repo.SummaryFor(c.Request.Context(), uint(id))
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "summary failed"}); return }
		c.JSON(http.StatusOK, sum)
	})

	api.POST("/matches/:id/rating", requireAuth, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		var req struct {
			Stars int `json:"stars"`
		}
		if err := c.BindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		rating, err := repo.Rate(c.Request.Context(), uint(id), u.ID, u.Role, req.Stars)
		if err != nil {
			if errors.Is(err, ErrBadStars) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}); return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate failed"}); return
		}
		c.JSON(http.StatusOK, rating)
	})
}
