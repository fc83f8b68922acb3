package notify

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xaitan80/footbase/internal/auth"
)

// RegisterRoutes mounts the notification inbox. Everything is scoped to
// the logged-in user.
func RegisterRoutes(r *gin.Engine, repo *Repo, requireAuth gin.HandlerFunc) {
	api := r.Group("/api/notifications", requireAuth)

	api.GET("", func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		limit := 0
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		out, err := repo.ForRecipient(c.Request.Context(), u.ID, limit)
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"}); return }
		c.JSON(http.StatusOK, out)
	})

	api.GET("/unread_count", func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		n, err := repo.UnreadCount(c.Request.Context(), u.ID)
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "count failed"}); return }
		c.JSON(http.StatusOK, gin.H{"unread": n})
	})

	api.POST("/:id/read", func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		if err := repo.MarkRead(c.Request.Context(), uint(id), u.ID); err != nil {
			if errors.Is(err, ErrNotFound) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}); return }
			c.JSON(http.StatusInternalServerError, gin.H{"error": "mark failed"}); return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.POST("/read_all", func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		n, err := repo.MarkAllRead(c.Request.Context(), u.ID)
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "mark failed"}); return }
		c.JSON(http.StatusOK, gin.H{"marked": n})
	})

	api.DELETE("/:id", func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		if err := repo.Delete(c.Request.Context(), uint(id), u.ID); err != nil {
			if errors.Is(err, ErrNotFound) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}); return }
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"}); return
		}
		c.Status(http.StatusNoContent)
	})
}
