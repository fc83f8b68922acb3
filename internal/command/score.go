package command

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ScoreEntry writes both participants' scores for a match and can restore
// the previous scores on undo.
type ScoreEntry struct {
	base
	store   ScoreStore
	matchID uint
	home    int
	away    int

	// before-state captured at execute time, keyed by participant row id
	prev map[uint]int
}

func NewScoreEntry(store ScoreStore, matchID uint, home, away int, actorID uint, log *logrus.Logger) *ScoreEntry {
	return &ScoreEntry{
		base:    newBase(actorID, log),
		store:   store,
		matchID: matchID,
		home:    home,
		away:    away,
	}
}

func (c *ScoreEntry) Type() string { return TypeScoreEntry }

func (c *ScoreEntry) Description() string {
	return fmt.Sprintf("score entry: match #%d %d-%d (actor %d)", c.matchID, c.home, c.away, c.actorID)
}

func (c *ScoreEntry) Execute(ctx context.Context) bool {
	return c.run(ctx, c.Type(), c.apply)
}

func (c *ScoreEntry) Undo(ctx context.Context) bool {
	return c.revert(ctx, c.Type(), c.restore)
}

func (c *ScoreEntry) Redo(ctx context.Context) bool {
	if c.executed {
		c.log.WithField("command", c.Type()).Warn("redo refused: command already executed")
		return false
	}
	return c.Execute(ctx)
}

func (c *ScoreEntry) apply(ctx context.Context) error {
	parts, err := c.store.ParticipantScores(ctx, c.matchID)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("match %d needs exactly 2 participants, has %d", c.matchID, len(parts))
	}

	c.prev = make(map[uint]int, 2)
	for _, p := range parts {
		c.prev[p.ID] = p.Score
	}

	if err := writeScores(ctx, c.store, parts, c.home, c.away, c.prev); err != nil {
		return err
	}
	return nil
}

func (c *ScoreEntry) restore(ctx context.Context) error {
	for id, score := range c.prev {
		if err := c.store.SetParticipantScore(ctx, id, score); err != nil {
			return fmt.Errorf("restore participant %d: %w", id, err)
		}
	}
	return nil
}

// writeScores sets both participants' scores. If the second write fails the
// first is rolled back from the snapshot so a half-applied score never
// stands.
func writeScores(ctx context.Context, store ScoreStore, parts []ParticipantScore, home, away int, prev map[uint]int) error {
	written := make([]uint, 0, 2)
	for _, p := range parts {
		target := away
		if p.Home {
			target = home
		}
		if err := store.SetParticipantScore(ctx, p.ID, target); err != nil {
			for _, id := range written {
				if rbErr := store.SetParticipantScore(ctx, id, prev[id]); rbErr != nil {
					return fmt.Errorf("write score: %w (rollback also failed: %v)", err, rbErr)
				}
			}
			return fmt.Errorf("write score: %w", err)
		}
		written = append(written, p.ID)
	}
	return nil
}
