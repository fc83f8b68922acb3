// Package command encapsulates reversible match mutations with undo/redo.
// Each command captures the before-state it needs to reverse itself;
// failures never escape as errors, they become a false return plus a
// logged cause.
package command

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Command types.
const (
	TypeScoreEntry = "SCORE_ENTRY"
	TypeFinalize   = "MATCH_FINALIZE"
)

// Command is a reversible unit of mutation. Execute flips the executed
// flag only on success; Undo is legal only while executed, Redo only while
// not executed.
type Command interface {
	Execute(ctx context.Context) bool
	Undo(ctx context.Context) bool
	Redo(ctx context.Context) bool

	ID() string
	Type() string
	ActorID() uint
	CreatedAt() time.Time
	Description() string
	Executed() bool
}

// ParticipantScore is the slice of participant state a score command works
// with: row id, side, and current score.
type ParticipantScore struct {
	ID    uint
	Home  bool
	Score int
}

// ScoreStore is the narrow storage surface score commands need.
type ScoreStore interface {
	ParticipantScores(ctx context.Context, matchID uint) ([]ParticipantScore, error)
	SetParticipantScore(ctx context.Context, participantID uint, score int) error
}

// StatusStore reads and writes a match's play status.
type StatusStore interface {
	PlayStatus(ctx context.Context, matchID uint) (string, error)
	SetPlayStatus(ctx context.Context, matchID uint, status string) error
}

// base carries the bookkeeping shared by all command variants.
type base struct {
	id       string
	actorID  uint
	created  time.Time
	executed bool
	log      *logrus.Logger
}

func newBase(actorID uint, log *logrus.Logger) base {
	return base{
		id:      uuid.NewString(),
		actorID: actorID,
		created: time.Now(),
		log:     log,
	}
}

func (b *base) ID() string           { return b.id }
func (b *base) ActorID() uint        { return b.actorID }
func (b *base) CreatedAt() time.Time { return b.created }
func (b *base) Executed() bool       { return b.executed }

// run applies fn and flips executed on success. Errors are logged, not
// propagated.
func (b *base) run(ctx context.Context, typ string, fn func(context.Context) error) bool {
	if err := fn(ctx); err != nil {
		b.log.WithFields(logrus.Fields{"command": typ, "actor": b.actorID}).
			WithError(err).Error("command execute failed")
		return false
	}
	b.executed = true
	b.log.WithFields(logrus.Fields{"command": typ, "actor": b.actorID}).Info("command executed")
	return true
}

// revert applies fn and clears executed on success. Undo before execute is
// refused.
func (b *base) revert(ctx context.Context, typ string, fn func(context.Context) error) bool {
	if !b.executed {
		b.log.WithField("command", typ).Warn("undo refused: command not executed")
		return false
	}
	if err := fn(ctx); err != nil {
		b.log.WithFields(logrus.Fields{"command": typ, "actor": b.actorID}).
			WithError(err).Error("command undo failed")
		return false
	}
	b.executed = false
	b.log.WithFields(logrus.Fields{"command": typ, "actor": b.actorID}).Info("command undone")
	return true
}
