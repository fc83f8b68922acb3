// Package notify fans match lifecycle events out to interested recipients
// as persisted notifications. Delivery is synchronous, best-effort, and
// isolated per observer: one failing observer never blocks the rest, and a
// notification failure never fails the workflow step that triggered it.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Event types fanned out by the match workflow. Only MATCH_ADDED,
// MATCH_PUBLISHED and MATCH_REJECTED persist notification rows today; the
// rest are log-only but must be deliverable without error.
const (
	EventMatchAdded     = "MATCH_ADDED"
	EventMatchPublished = "MATCH_PUBLISHED"
	EventMatchRejected  = "MATCH_REJECTED"
	EventMatchStarted   = "MATCH_STARTED"
	EventMatchFinished  = "MATCH_FINISHED"
	EventGoalScored     = "GOAL_SCORED"
	EventNewComment     = "NEW_COMMENT"
)

// Event is the payload handed to observers.
type Event struct {
	Type     string
	MatchID  uint
	HomeTeam string
	AwayTeam string
	ActorID  uint
}

// Observer receives events. Update must not return an error: failures are
// the observer's own problem (log and swallow).
type Observer interface {
	RecipientID() uint
	Update(ctx context.Context, ev Event)
}

// Subject holds a per-operation list of observers, deduplicated by
// recipient identity, and notifies them in registration order.
type Subject struct {
	observers []Observer
	log       *logrus.Logger
}

func NewSubject(log *logrus.Logger) *Subject {
	return &Subject{log: log}
}

func (s *Subject) Attach(o Observer) {
	for _, existing := range s.observers {
		if existing.RecipientID() == o.RecipientID() {
			return
		}
	}
	s.observers = append(s.observers, o)
}

func (s *Subject) Detach(o Observer) {
	for i, existing := range s.observers {
		if existing.RecipientID() == o.RecipientID() {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Subject) Len() int { return len(s.observers) }

// Notify delivers the event to every observer in order. A panicking
// observer is contained and logged; delivery continues.
func (s *Subject) Notify(ctx context.Context, ev Event) {
	for _, o := range s.observers {
		s.deliver(ctx, o, ev)
	}
}

func (s *Subject) deliver(ctx context.Context, o Observer, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{
				"event":     ev.Type,
				"recipient": o.RecipientID(),
				"panic":     r,
			}).Error("observer panicked during delivery")
		}
	}()
	o.Update(ctx, ev)
}
