package matches

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xaitan80/footbase/internal/auth"
	"github.com/xaitan80/footbase/internal/lifecycle"
)

type scoreReq struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// RegisterRoutes mounts the match workflow. Reads of published matches are
// public; everything else goes through requireAuth plus a role gate.
func RegisterRoutes(r *gin.Engine, svc *Service, requireAuth gin.HandlerFunc) {
	api := r.Group("/api")

	editor := []gin.HandlerFunc{requireAuth, auth.RequireRole(auth.RoleEditor, auth.RoleAdmin)}
	admin := []gin.HandlerFunc{requireAuth, auth.RequireRole(auth.RoleAdmin)}

	api.GET("/matches", func(c *gin.Context) {
		list, err := svc.Published(c.Request.Context())
		if err != nil { fail(c, err); return }
		c.JSON(http.StatusOK, list)
	})

	api.GET("/matches/mine", append(editor, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		list, err := svc.OwnedByEditor(c.Request.Context(), u.ID)
		if err != nil { fail(c, err); return }
		c.JSON(http.StatusOK, list)
	})...)

	api.GET("/matches/pending", append(admin, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		list, err := svc.PendingForAdmin(c.Request.Context(), u.ID)
		if err != nil { fail(c, err); return }
		c.JSON(http.StatusOK, list)
	})...)

	api.GET("/matches/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok { return }
		m, err := svc.Get(c.Request.Context(), id)
		if err != nil { fail(c, err); return }
		status, err := svc.Status(c.Request.Context(), id)
		if err != nil { fail(c, err); return }
		c.JSON(http.StatusOK, gin.H{"match": m, "approval_status": status})
	})

	api.GET("/matches/:id/history", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok { return }
		entries, err := svc.History(c.Request.Context(), id)
		if err != nil { fail(c, err); return }
		c.JSON(http.StatusOK, entries)
	})

	api.POST("/matches", append(editor, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		var m Match
		if err := c.BindJSON(&m); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		created, err := svc.CreateByEditor(c.Request.Context(), u.ID, m)
		if err != nil { fail(c, err); return }
		c.JSON(http.StatusCreated, created)
	})...)

	api.POST("/matches/import", append(editor, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		if err := c.Request.ParseMultipartForm(12 << 20); err != nil { // 12MB
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart too large"}); return
		}
		fh, err := c.FormFile("file")
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"}); return }
		rows, err := parseImport(fh)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}); return }
		c.JSON(http.StatusOK, svc.Import(c.Request.Context(), u.ID, rows))
	})...)

	api.POST("/matches/:id/publish", append(admin, func(c *gin.Context) {
		decide(c, svc.Publish)
	})...)

	api.POST("/matches/:id/reject", append(admin, func(c *gin.Context) {
		decide(c, svc.Reject)
	})...)

	api.POST("/matches/:id/start", append(editor, func(c *gin.Context) {
		decide(c, svc.Start)
	})...)

	api.POST("/matches/:id/finish", append(editor, func(c *gin.Context) {
		decide(c, svc.Finish)
	})...)

	api.POST("/matches/:id/score", append(editor, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		id, ok := pathID(c)
		if !ok { return }
		var req scoreReq
		if err := c.BindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		res, err := svc.EnterScore(c.Request.Context(), id, u.ID, req.Home, req.Away)
		if err != nil { fail(c, err); return }
		c.JSON(statusFor(res), res)
	})...)

	api.POST("/matches/:id/finalize", append(editor, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		id, ok := pathID(c)
		if !ok { return }
		var req scoreReq
		if err := c.BindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		res, err := svc.Finalize(c.Request.Context(), id, u.ID, req.Home, req.Away)
		if err != nil { fail(c, err); return }
		c.JSON(statusFor(res), res)
	})...)

	api.POST("/commands/undo", append(editor, func(c *gin.Context) {
		u, _ := auth.UserFrom(c)
		res, err := svc.Undo(c.Request.Context(), u.ID)
		if err != nil { fail(c, err); return }
		c.JSON(statusFor(res), res)
	})...)

	api.POST("/commands/redo", append(editor, func(c *gin.Context) {
		res, err := svc.Redo(c.Request.Context())
		if err != nil { fail(c, err); return }
		c.JSON(statusFor(res), res)
	})...)

	api.GET("/commands", append(editor, func(c *gin.Context) {
		n := 20
		if v := c.Query("limit"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				n = parsed
			}
		}
		c.JSON(http.StatusOK, svc.CommandLog(n))
	})...)
}

// decide handles the publish/reject/start/finish shape: path id + actor,
// no body.
func decide(c *gin.Context, op func(ctx context.Context, matchID, actorID uint) error) {
	u, _ := auth.UserFrom(c)
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id, u.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func statusFor(res Result) int {
	if res.OK {
		return http.StatusOK
	}
	return http.StatusUnprocessableEntity
}

// fail maps service errors onto responses: validation 400 with rule name,
// authorization 403, state conflicts 409, unknown subjects 404, the rest
// 500.
func fail(c *gin.Context, err error) {
	var v *ValidationError
	switch {
	case errors.As(err, &v):
		c.JSON(http.StatusBadRequest, gin.H{"error": v.Result.Message, "rule": v.Result.Rule})
	case errors.Is(err, lifecycle.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, lifecycle.ErrNotPending), errors.Is(err, ErrPlayState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNoHistory), errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
