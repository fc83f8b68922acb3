package main

import (
	"log"
	"time"

	_ "time/tzdata"

	"github.com/gin-gonic/gin"

	"github.com/xaitan80/footbase/internal/auth"
	"github.com/xaitan80/footbase/internal/command"
	"github.com/xaitan80/footbase/internal/comments"
	"github.com/xaitan80/footbase/internal/config"
	dbpkg "github.com/xaitan80/footbase/internal/db"
	"github.com/xaitan80/footbase/internal/lifecycle"
	"github.com/xaitan80/footbase/internal/logging"
	"github.com/xaitan80/footbase/internal/matches"
	"github.com/xaitan80/footbase/internal/notify"
	"github.com/xaitan80/footbase/internal/ratings"
	"github.com/xaitan80/footbase/internal/teams"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	d, err := dbpkg.Open(cfg.DBPath)
	if err != nil {
		logger.WithError(err).Fatal("open db")
	}
	if err := dbpkg.AutoMigrate(d,
		&auth.User{}, &auth.Session{}, &auth.Supervision{},
		&teams.Team{}, &matches.Match{}, &matches.Participant{},
		&lifecycle.StatusEntry{}, &notify.Notification{},
		&comments.Comment{}, &ratings.Rating{},
	); err != nil {
		logger.WithError(err).Fatal("migrate")
	}

	authRepo := auth.NewRepository(d)
	teamRepo := teams.NewRepo(d)
	matchRepo := matches.NewRepo(d)
	noteRepo := notify.NewRepo(d)
	ratingRepo := ratings.NewRepo(d)
	commentRepo := comments.NewRepo(d)

	tracker := lifecycle.NewTracker(d, authRepo, logger)
	history := command.NewHistory(logger)
	invoker := command.NewInvoker(history, logger)
	matchSvc := matches.NewService(matchRepo, teamRepo, tracker, invoker, noteRepo, authRepo, logger)

	guard := comments.NewSpamGuard(10 * time.Second)
	commentSvc := comments.NewService(commentRepo, guard, comments.ModerationOptions{AllowLinks: true}, tracker, noteRepo, logger)

	r := gin.Default()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.WithError(err).Fatal("trusted proxies")
	}

	opts := auth.Options{SessionTTL: cfg.SessionTTL, CookieSecure: cfg.CookieSecure}
	requireAuth := auth.RequireAuth(authRepo)

	auth.RegisterRoutes(r, authRepo, opts)
	teams.RegisterRoutes(r, teamRepo, requireAuth, auth.RequireRole(auth.RoleEditor, auth.RoleAdmin))
	matches.RegisterRoutes(r, matchSvc, requireAuth)
	comments.RegisterRoutes(r, commentSvc, requireAuth)
	ratings.RegisterRoutes(r, ratingRepo, requireAuth)
	notify.RegisterRoutes(r, noteRepo, requireAuth)

	logger.WithField("addr", cfg.Addr).Info("listening")
	if err := r.Run(cfg.Addr); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
