package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const CookieName = "session_token"

const userKey = "auth.user"

// Options carries the cookie/session knobs resolved from configuration.
type Options struct {
	SessionTTL   time.Duration
	CookieSecure bool
}

func (o Options) ttl() time.Duration {
	if o.SessionTTL > 0 {
		return o.SessionTTL
	}
	return 30 * 24 * time.Hour
}

func RegisterRoutes(r *gin.Engine, repo *Repository, opts Options) {
	api := r.Group("/api/auth")

	api.POST("/register", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || !strings.Contains(req.Email, "@") { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"}); return }
		if len(req.Password) < 12 { c.JSON(http.StatusBadRequest, gin.H{"error": "password too short (min 12)"}); return }

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"}); return }

		u, err := repo.CreateUser(c.Request.Context(), req.Email, string(hash))
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				c.JSON(http.StatusConflict, gin.H{"error": "email already in use"}); return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()}); return
		}
		c.JSON(http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "role": u.Role})
	})

	api.POST("/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.BindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" { c.JSON(http.StatusBadRequest, gin.H{"error": "missing email or password"}); return }

		u, err := repo.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil { c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"}); return }
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"}); return
		}

		s, err := repo.CreateSession(c.Request.Context(), u.ID, opts.ttl())
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "session failed"}); return }
		maxAge := int(time.Until(s.ExpiresAt).Seconds())
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, s.Token, maxAge, "/", "", opts.CookieSecure, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.POST("/logout", func(c *gin.Context) {
		tok, err := c.Cookie(CookieName)
		if err == nil && tok != "" { _ = repo.DeleteSession(c.Request.Context(), tok) }
		c.SetSameSite(http.SameSiteLaxMode)
		// overwrite with expired cookie
		c.SetCookie(CookieName, "", -1, "/", "", opts.CookieSecure, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api.GET("/me", func(c *gin.Context) {
		u, ok := CurrentUser(c, repo)
		if !ok { c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"}); return }
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email, "role": u.Role})
	})

	admin := r.Group("/api/admin", RequireAuth(repo), RequireRole(RoleAdmin))

	admin.GET("/users", func(c *gin.Context) {
		users, err := repo.ListUsers(c.Request.Context())
		if err != nil { c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"}); return }
		c.JSON(http.StatusOK, users)
	})

	admin.PUT("/users/:id/role", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		var req struct {
			Role string `json:"role"`
		}
		if err := c.BindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		if err := repo.SetRole(c.Request.Context(), uint(id), strings.ToUpper(strings.TrimSpace(req.Role))); err != nil {
			if errors.Is(err, ErrNotFound) { c.JSON(http.StatusNotFound, gin.H{"error": "user not found"}); return }
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}); return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	admin.PUT("/editors/:id/supervisor", func(c *gin.Context) {
		editorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"}); return }
		var req struct {
			AdminID uint `json:"admin_id"`
		}
		if err := c.BindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"}); return }
		if err := repo.AssignSupervisor(c.Request.Context(), uint(editorID), req.AdminID); err != nil {
			if errors.Is(err, ErrNotFound) { c.JSON(http.StatusNotFound, gin.H{"error": err.Error()}); return }
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}); return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

// CurrentUser resolves user from the session cookie for convenience.
func CurrentUser(c *gin.Context, repo *Repository) (User, bool) {
	tok, err := c.Cookie(CookieName)
	if err != nil || tok == "" { return User{}, false }
	u, err := repo.GetUserBySession(c.Request.Context(), tok)
	if err != nil { return User{}, false }
	return u, true
}

// RequireAuth resolves the session cookie and stores the user on the context.
func RequireAuth(repo *Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(CookieName)
		if err != nil || tok == "" { c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"}); return }
		u, err := repo.GetUserBySession(c.Request.Context(), tok)
		if err != nil {
			if errors.Is(err, ErrNotFound) { c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"}); return }
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth failed"}); return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// RequireRole allows any of the given roles. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFrom(c)
		if !ok { c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"}); return }
		for _, role := range roles {
			if u.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// UserFrom returns the user placed on the context by RequireAuth.
func UserFrom(c *gin.Context) (User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return User{}, false
	}
	u, ok := v.(User)
	return u, ok
}
