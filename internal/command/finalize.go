package command

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Result classifications, reported only, never persisted.
const (
	OutcomeHomeWin = "HOME_WIN"
	OutcomeAwayWin = "AWAY_WIN"
	OutcomeDraw    = "DRAW"
)

// Finalize enters the final score and rewrites the match's play status as
// one logical unit; undo restores both.
type Finalize struct {
	base
	scores  ScoreStore
	status  StatusStore
	matchID uint
	home    int
	away    int
	target  string

	prevScores map[uint]int
	prevStatus string
}

// NewFinalize builds a finalize command. An empty target status defaults to
// FINISHED.
func NewFinalize(scores ScoreStore, status StatusStore, matchID uint, home, away int, target string, actorID uint, log *logrus.Logger) *Finalize {
	if target == "" {
		target = "FINISHED"
	}
	return &Finalize{
		base:    newBase(actorID, log),
		scores:  scores,
		status:  status,
		matchID: matchID,
		home:    home,
		away:    away,
		target:  target,
	}
}

func (c *Finalize) Type() string { return TypeFinalize }

func (c *Finalize) Description() string {
	return fmt.Sprintf("finalize: match #%d %d-%d → %s (actor %d)", c.matchID, c.home, c.away, c.target, c.actorID)
}

// Outcome classifies the entered score for reporting.
func (c *Finalize) Outcome() string {
	switch {
	case c.home > c.away:
		return OutcomeHomeWin
	case c.away > c.home:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

func (c *Finalize) Execute(ctx context.Context) bool {
	return c.run(ctx, c.Type(), c.apply)
}

func (c *Finalize) Undo(ctx context.Context) bool {
	return c.revert(ctx, c.Type(), c.restore)
}

func (c *Finalize) Redo(ctx context.Context) bool {
	if c.executed {
		c.log.WithField("command", c.Type()).Warn("redo refused: command already executed")
		return false
	}
	return c.Execute(ctx)
}

func (c *Finalize) apply(ctx context.Context) error {
	parts, err := c.scores.ParticipantScores(ctx, c.matchID)
	if err != nil {
		return fmt.Errorf("load participants: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf("match %d needs exactly 2 participants, has %d", c.matchID, len(parts))
	}

	prevStatus, err := c.status.PlayStatus(ctx, c.matchID)
	if err != nil {
		return fmt.Errorf("load play status: %w", err)
	}

	c.prevScores = make(map[uint]int, 2)
	for _, p := range parts {
		c.prevScores[p.ID] = p.Score
	}
	c.prevStatus = prevStatus

	if err := writeScores(ctx, c.scores, parts, c.home, c.away, c.prevScores); err != nil {
		return err
	}
	if err := c.status.SetPlayStatus(ctx, c.matchID, c.target); err != nil {
		// keep the mutation all-or-nothing: put the scores back
		for id, score := range c.prevScores {
			if rbErr := c.scores.SetParticipantScore(ctx, id, score); rbErr != nil {
				return fmt.Errorf("set play status: %w (score rollback also failed: %v)", err, rbErr)
			}
		}
		return fmt.Errorf("set play status: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"match":   c.matchID,
		"score":   fmt.Sprintf("%d-%d", c.home, c.away),
		"status":  c.target,
		"outcome": c.Outcome(),
	}).Info("match finalized")
	return nil
}

func (c *Finalize) restore(ctx context.Context) error {
	if err := c.status.SetPlayStatus(ctx, c.matchID, c.prevStatus); err != nil {
		return fmt.Errorf("restore play status: %w", err)
	}
	for id, score := range c.prevScores {
		if err := c.scores.SetParticipantScore(ctx, id, score); err != nil {
			return fmt.Errorf("restore participant %d: %w", id, err)
		}
	}
	return nil
}
