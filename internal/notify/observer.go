package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Recipient is an observer that persists a notification row for its user.
// Store failures are logged and swallowed so the triggering workflow
// operation never fails on a lost notification.
type Recipient struct {
	userID uint
	store  *Repo
	log    *logrus.Logger
}

func NewRecipient(userID uint, store *Repo, log *logrus.Logger) *Recipient {
	return &Recipient{userID: userID, store: store, log: log}
}

func (r *Recipient) RecipientID() uint { return r.userID }

func (r *Recipient) Update(ctx context.Context, ev Event) {
	title, body, persist := render(ev)
	if !persist {
		r.log.WithFields(logrus.Fields{
			"event":     ev.Type,
			"recipient": r.userID,
			"match":     ev.MatchID,
		}).Info("event delivered (log only)")
		return
	}

	matchID := ev.MatchID
	var sender *uint
	if ev.ActorID != 0 {
		actor := ev.ActorID
		sender = &actor
	}
	n := Notification{
		RecipientID: r.userID,
		SenderID:    sender,
		Type:        ev.Type,
		Title:       title,
		Body:        body,
		MatchID:     &matchID,
		TargetURL:   fmt.Sprintf("/matches/%d", ev.MatchID),
	}
	if err := r.store.Create(ctx, &n); err != nil {
		r.log.WithFields(logrus.Fields{
			"event":     ev.Type,
			"recipient": r.userID,
		}).WithError(err).Error("notification not persisted")
		return
	}
	r.log.WithFields(logrus.Fields{
		"event":     ev.Type,
		"recipient": r.userID,
		"match":     ev.MatchID,
	}).Info("notification persisted")
}

// render maps an event to a notification title and body. The second return
// reports whether this event type persists at all.
func render(ev Event) (title, body string, persist bool) {
	pairing := fmt.Sprintf("%s vs %s", orUnknown(ev.HomeTeam), orUnknown(ev.AwayTeam))
	switch ev.Type {
	case EventMatchAdded:
		return "New match awaiting approval",
			fmt.Sprintf("The match %s was added and awaits your approval.", pairing), true
	case EventMatchPublished:
		return "Match published",
			fmt.Sprintf("The match %s was approved and is now published.", pairing), true
	case EventMatchRejected:
		return "Match rejected",
			fmt.Sprintf("The match %s was rejected.", pairing), true
	default:
		return "", "", false
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
