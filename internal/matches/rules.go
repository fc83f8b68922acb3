package matches

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/xaitan80/footbase/internal/chain"
)

const maxDaysAhead = 365

// NewApprovalChain builds the validation chain every match passes before it
// enters the approval workflow.
func NewApprovalChain(log *logrus.Logger) *chain.Chain[Match] {
	return chain.New[Match](log,
		DateRule{log: log, now: time.Now},
		TeamRule{},
		KickoffRule{log: log},
		VenueRule{},
	)
}

// DateRule checks the match date. New matches may not be scheduled in the
// past or more than a year out. A same-day kickoff that has already passed
// is allowed but logged.
type DateRule struct {
	log *logrus.Logger
	now func() time.Time
}

func (DateRule) Name() string  { return "match date" }
func (DateRule) Priority() int { return 1 }

func (r DateRule) Check(m Match) chain.Result {
	if strings.TrimSpace(m.Date) == "" {
		return chain.Fail(r.Name(), "match date is required")
	}
	day, err := time.ParseInLocation("2006-01-02", m.Date, time.Local)
	if err != nil {
		return chain.Fail(r.Name(), "match date must be on the form YYYY-MM-DD")
	}
	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if m.ID == 0 && day.Before(today) {
		return chain.Fail(r.Name(), "match date cannot be in the past")
	}
	if day.After(today.AddDate(0, 0, maxDaysAhead)) {
		return chain.Fail(r.Name(), fmt.Sprintf("match date cannot be more than %d days ahead", maxDaysAhead))
	}
	if day.Equal(today) && m.Time != "" {
		if kick, err := m.Kickoff(); err == nil && kick.Before(now) {
			r.log.WithField("match", m.ID).Warn("kickoff today has already passed")
		}
	}
	return chain.Pass()
}

// TeamRule requires exactly one home and one away participant with distinct
// teams.
type TeamRule struct{}

func (TeamRule) Name() string  { return "match teams" }
func (TeamRule) Priority() int { return 2 }

func (r TeamRule) Check(m Match) chain.Result {
	if len(m.Participants) != 2 {
		return chain.Fail(r.Name(), "a match needs exactly two participating teams")
	}
	home, away, ok := m.Sides()
	if !ok {
		return chain.Fail(r.Name(), "a match needs one home and one away team")
	}
	if home.TeamID == away.TeamID {
		return chain.Fail(r.Name(), "home and away team must be different")
	}
	return chain.Pass()
}

// KickoffRule requires a parseable kickoff time. Times outside 10:00-23:00
// are unusual but legal, so they only log.
type KickoffRule struct {
	log *logrus.Logger
}

func (KickoffRule) Name() string  { return "kickoff time" }
func (KickoffRule) Priority() int { return 3 }

func (r KickoffRule) Check(m Match) chain.Result {
	if strings.TrimSpace(m.Time) == "" {
		return chain.Fail(r.Name(), "kickoff time is required")
	}
	t, err := time.Parse("15:04", m.Time)
	if err != nil {
		return chain.Fail(r.Name(), "kickoff time must be on the form HH:MM")
	}
	mins := t.Hour()*60 + t.Minute()
	if mins < 10*60 || mins > 23*60 {
		r.log.WithFields(logrus.Fields{"match": m.ID, "time": m.Time}).
			Warn("kickoff outside the usual 10:00-23:00 window")
	}
	return chain.Pass()
}

// VenueRule validates the optional venue name.
type VenueRule struct{}

func (VenueRule) Name() string  { return "venue" }
func (VenueRule) Priority() int { return 4 }

func (r VenueRule) Check(m Match) chain.Result {
	v := strings.TrimSpace(m.Venue)
	if v == "" {
		return chain.Pass()
	}
	if n := utf8.RuneCountInString(v); n < 3 || n > 100 {
		return chain.Fail(r.Name(), "venue name must be 3-100 characters")
	}
	return chain.Pass()
}
