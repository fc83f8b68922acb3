package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/xaitan80/footbase/internal/chain"
	"github.com/xaitan80/footbase/internal/lifecycle"
	"github.com/xaitan80/footbase/internal/notify"
)

// ValidationError carries a failed moderation result.
type ValidationError struct {
	Result chain.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Result.Rule, e.Result.Message)
}

// Service moderates and stores comments and raises the NEW_COMMENT event
// toward the match's original author.
type Service struct {
	repo          *Repo
	guard         *SpamGuard
	moderation    *chain.Chain[Comment]
	tracker       *lifecycle.Tracker
	notifications *notify.Repo
	log           *logrus.Logger
}

func NewService(repo *Repo, guard *SpamGuard, opts ModerationOptions,
	tracker *lifecycle.Tracker, notifications *notify.Repo, log *logrus.Logger) *Service {
	return &Service{
		repo:          repo,
		guard:         guard,
		moderation:    NewModerationChain(guard, opts, log),
		tracker:       tracker,
		notifications: notifications,
		log:           log,
	}
}

// Create runs the moderation chain, masks profanity in the accepted body,
// stores the comment, and records the author's post time for the spam
// guard.
func (s *Service) Create(ctx context.Context, matchID, authorID uint, body string) (Comment, error) {
	// match must exist in the workflow
	if _, err := s.tracker.Current(ctx, matchID); err != nil {
		return Comment{}, err
	}

	c := Comment{MatchID: matchID, AuthorID: authorID, Body: strings.TrimSpace(body)}
	if res := s.moderation.Run(c); !res.OK {
		return Comment{}, &ValidationError{Result: res}
	}
	c.Body = MaskProfanity(c.Body)
	if err := s.repo.Create(ctx, &c); err != nil {
		return Comment{}, fmt.Errorf("store comment: %w", err)
	}
	s.guard.Record(authorID)

	if author, err := s.tracker.OriginalAuthor(ctx, matchID); err == nil && author != authorID {
		subject := notify.NewSubject(s.log)
		subject.Attach(notify.NewRecipient(author, s.notifications, s.log))
		subject.Notify(ctx, notify.Event{Type: notify.EventNewComment, MatchID: matchID, ActorID: authorID})
	}
	return c, nil
}

// ForMatch lists a match's comments, oldest first.
func (s *Service) ForMatch(ctx context.Context, matchID uint) ([]Comment, error) {
	return s.repo.ForMatch(ctx, matchID)
}

// DeleteOwn removes the author's own comment.
func (s *Service) DeleteOwn(ctx context.Context, id, authorID uint) error {
	return s.repo.DeleteOwn(ctx, id, authorID)
}
