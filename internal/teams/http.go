package teams

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts team CRUD. Reads are public, writes go behind the
// protect middleware chain.
func RegisterRoutes(r *gin.Engine, repo *Repo, protect ...gin.HandlerFunc) {
	api := r.Group("/api/teams")

	api.GET("", func(c *gin.Context) {
		out, err := repo.List(c.Request.Context())
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"}); return }
		c.JSON(http.StatusOK, out)
	})

	api.GET("/:id", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		t, err := repo.Get(c.Request.Context(), uint(id))
		if errors.Is(err, ErrNotFound) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}); return }
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"}); return }
		c.JSON(http.StatusOK, t)
	})

	api.POST("", append(protect, func(c *gin.Context) {
		var t Team
		if err := c.BindJSON(&t); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		if strings.TrimSpace(t.Name) == "" { c.JSON(http.StatusBadRequest, gin.H{"error": "name required"}); return }
		t.ID = 0
		if err := repo.Create(c.Request.Context(), &t); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				c.JSON(http.StatusConflict, gin.H{"error": "team name already in use"}); return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"}); return
		}
		c.JSON(http.StatusCreated, t)
	})...)

	api.PUT("/:id", append(protect, func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		existing, err := repo.Get(c.Request.Context(), uint(id))
		if errors.Is(err, ErrNotFound) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}); return }
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"}); return }
		var t Team
		if err := c.BindJSON(&t); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
		if err := repo.Update(c.Request.Context(), &t); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"}); return
		}
		c.JSON(http.StatusOK, t)
	})...)

	api.DELETE("/:id", append(protect, func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		if err := repo.Delete(c.Request.Context(), uint(id)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"}); return
		}
		c.Status(http.StatusNoContent)
	})...)
}
