package matches

import (
	"time"

	"github.com/xaitan80/footbase/internal/teams"
)

type Match struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	Date         string        `gorm:"size:10" json:"date"` // 2006-01-02
	Time         string        `gorm:"size:5" json:"time"`  // 15:04
	PlayStatus   string        `gorm:"size:20;default:PLANNED" json:"play_status"`
	Venue        string        `gorm:"size:100" json:"venue"`
	Referee      string        `gorm:"size:100" json:"referee"`
	Competition  string        `gorm:"size:100" json:"competition"`
	Note         string        `gorm:"size:500" json:"note"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE" json:"participants"`
}

func (Match) TableName() string { return "matches" }

type Participant struct {
	ID      uint       `gorm:"primarykey" json:"id"`
	MatchID uint       `gorm:"index" json:"match_id"`
	TeamID  uint       `json:"team_id"`
	Home    bool       `json:"home"`
	Score   int        `gorm:"default:0" json:"score"`
	Team    teams.Team `gorm:"foreignKey:TeamID" json:"team"`
}

func (Participant) TableName() string { return "match_participants" }

// Kickoff combines Date and Time into a local wall-clock instant.
func (m Match) Kickoff() (time.Time, error) {
	tm := m.Time
	if tm == "" {
		tm = "00:00"
	}
	return time.ParseInLocation("2006-01-02 15:04", m.Date+" "+tm, time.Local)
}

// Sides returns the home and away participant, in that order. ok is false
// unless the match has exactly one of each.
func (m Match) Sides() (home, away Participant, ok bool) {
	var homes, aways []Participant
	for _, p := range m.Participants {
		if p.Home {
			homes = append(homes, p)
		} else {
			aways = append(aways, p)
		}
	}
	if len(homes) != 1 || len(aways) != 1 {
		return Participant{}, Participant{}, false
	}
	return homes[0], aways[0], true
}
