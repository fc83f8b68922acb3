package comments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xaitan80/footbase/internal/auth"
	"github.com/xaitan80/footbase/internal/lifecycle"
)

// RegisterRoutes mounts comment endpoints. Reading is public, posting and
// deleting require a logged-in user.
func RegisterRoutes(r *gin.Engine, svc *Service, requireAuth gin.HandlerFunc) {
	api := r.Group("/api")

	api.GET("/matches/:id/comments", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		out, err := svc.ForMatch(c.Request.Context(), uint(id))
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"}); return }
		c.JSON(http.StatusOK, out)
	})

	api.POST("/matches/:id/comments", requireAuth, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		var req struct {
			Body string `json:"body"`
		}
		if err := c.BindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }

		created, err := svc.Create(c.Request.Context(), uint(id), u.ID, req.Body)
		if err != nil {
			var v *ValidationError
			switch {
			case errors.As(err, &v):
				c.JSON(http.StatusBadRequest, gin.H{"error": v.Result.Message, "rule": v.Result.Rule})
			case errors.Is(err, lifecycle.ErrNoHistory):
				c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	api.DELETE("/comments/:id", requireAuth, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		if err := svc.DeleteOwn(c.Request.Context(), uint(id), u.ID); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			case errors.Is(err, ErrNotOwner):
				c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
			}
			return
		}
		c.Status(http.StatusNoContent)
	})
}
