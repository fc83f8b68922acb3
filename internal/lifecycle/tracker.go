// Package lifecycle derives a match's approval status from an append-only
// history and enforces who may move it between states.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// ErrNoHistory means the match has no status entries at all.
	ErrNoHistory = errors.New("match has no status history")
	// ErrNotPending means a publish/reject was attempted on a match whose
	// current status is not PENDING.
	ErrNotPending = errors.New("match is not pending approval")
	// ErrNotAuthorized is an authorization failure, distinct from
	// validation so callers can map it to a different response.
	ErrNotAuthorized = errors.New("actor is not authorized for this match")
)

// SupervisorLookup resolves the supervising admin of an editor.
type SupervisorLookup interface {
	SupervisorOf(ctx context.Context, editorID uint) (uint, error)
}

// Tracker reads and appends match status history. Current status is the
// max-RecordedAt entry, ties broken by row id (insertion order). There is
// no compare-and-swap guard on appends; two racing appenders may both
// succeed and the later row wins.
type Tracker struct {
	db          *gorm.DB
	supervisors SupervisorLookup
	log         *logrus.Logger
	now         func() time.Time
}

func NewTracker(db *gorm.DB, supervisors SupervisorLookup, log *logrus.Logger) *Tracker {
	return &Tracker{db: db, supervisors: supervisors, log: log, now: time.Now}
}

// Append records a new status entry. History is never edited; re-pending a
// match is modeled as another append.
func (t *Tracker) Append(ctx context.Context, matchID uint, status string, actorID uint) error {
	entry := StatusEntry{
		MatchID:    matchID,
		Status:     status,
		ActorID:    actorID,
		RecordedAt: t.now(),
	}
	if err := t.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("append status: %w", err)
	}
	t.log.WithFields(logrus.Fields{
		"match":  matchID,
		"status": status,
		"actor":  actorID,
	}).Info("status appended")
	return nil
}

// Current returns the match's derived approval status.
func (t *Tracker) Current(ctx context.Context, matchID uint) (string, error) {
	var e StatusEntry
	err := t.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("recorded_at DESC, id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoHistory
	}
	if err != nil {
		return "", fmt.Errorf("current status: %w", err)
	}
	return e.Status, nil
}

// OriginalAuthor returns the actor of the earliest history entry. This is
// how "whose match is this" is resolved everywhere; it relies on history
// being permanent.
func (t *Tracker) OriginalAuthor(ctx context.Context, matchID uint) (uint, error) {
	var e StatusEntry
	err := t.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("recorded_at ASC, id ASC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNoHistory
	}
	if err != nil {
		return 0, fmt.Errorf("original author: %w", err)
	}
	return e.ActorID, nil
}

// Entries returns the full history for a match, oldest first.
func (t *Tracker) Entries(ctx context.Context, matchID uint) ([]StatusEntry, error) {
	var out []StatusEntry
	err := t.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("recorded_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// MatchIDsWithCurrent returns the ids of matches whose derived current
// status equals the given one.
func (t *Tracker) MatchIDsWithCurrent(ctx context.Context, status string) ([]uint, error) {
	var ids []uint
	err := t.db.WithContext(ctx).Raw(`
		SELECT match_id FROM (
			SELECT match_id, status,
			       ROW_NUMBER() OVER (PARTITION BY match_id ORDER BY recorded_at DESC, id DESC) AS rn
			FROM match_status_history
		) WHERE rn = 1 AND status = ?`, status).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("matches with status %s: %w", status, err)
	}
	return ids, nil
}

// MatchIDsByAuthor returns the ids of matches whose original author is the
// given actor.
func (t *Tracker) MatchIDsByAuthor(ctx context.Context, actorID uint) ([]uint, error) {
	var ids []uint
	err := t.db.WithContext(ctx).Raw(`
		SELECT match_id FROM (
			SELECT match_id, actor_id,
			       ROW_NUMBER() OVER (PARTITION BY match_id ORDER BY recorded_at ASC, id ASC) AS rn
			FROM match_status_history
		) WHERE rn = 1 AND actor_id = ?`, actorID).Scan(&ids).Error
	if err != nil {
		return nil, fmt.Errorf("matches by author %d: %w", actorID, err)
	}
	return ids, nil
}

// Publish moves a PENDING match to PUBLISHED. Only the supervising admin of
// the match's original author may do this.
func (t *Tracker) Publish(ctx context.Context, matchID, adminID uint) error {
	return t.transition(ctx, matchID, adminID, StatusPublished)
}

// Reject moves a PENDING match to REJECTED, under the same authorization.
func (t *Tracker) Reject(ctx context.Context, matchID, adminID uint) error {
	return t.transition(ctx, matchID, adminID, StatusRejected)
}

func (t *Tracker) transition(ctx context.Context, matchID, adminID uint, target string) error {
	cur, err := t.Current(ctx, matchID)
	if err != nil {
		return err
	}
	if cur != StatusPending {
		return fmt.Errorf("%w: current status is %s", ErrNotPending, cur)
	}
	author, err := t.OriginalAuthor(ctx, matchID)
	if err != nil {
		return err
	}
	sup, err := t.supervisors.SupervisorOf(ctx, author)
	if err != nil {
		return fmt.Errorf("%w: no supervisor on record for author %d", ErrNotAuthorized, author)
	}
	if sup != adminID {
		return fmt.Errorf("%w: admin %d does not supervise author %d", ErrNotAuthorized, adminID, author)
	}
	return t.Append(ctx, matchID, target, adminID)
}

// RequireAuthor fails with ErrNotAuthorized unless actorID is the match's
// original author. Start/finish/score/undo all go through this.
func (t *Tracker) RequireAuthor(ctx context.Context, matchID, actorID uint) error {
	author, err := t.OriginalAuthor(ctx, matchID)
	if err != nil {
		return err
	}
	if author != actorID {
		return fmt.Errorf("%w: match belongs to actor %d", ErrNotAuthorized, author)
	}
	return nil
}
