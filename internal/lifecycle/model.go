package lifecycle

import "time"

// Approval statuses. A match's current approval status is derived from its
// newest history entry, never stored on the match row.
const (
	StatusPending   = "PENDING"
	StatusPublished = "PUBLISHED"
	StatusRejected  = "REJECTED"
)

// Play statuses, kept on the match row and independent of approval.
const (
	PlayPlanned  = "PLANNED"
	PlayStarted  = "STARTED"
	PlayFinished = "FINISHED"
)

// StatusEntry is one immutable row of a match's approval history.
// Entries are append-only; rows are never updated or deleted.
type StatusEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MatchID    uint      `gorm:"index;not null" json:"match_id"`
	Status     string    `gorm:"size:20;not null" json:"status"`
	ActorID    uint      `gorm:"not null" json:"actor_id"`
	RecordedAt time.Time `gorm:"index;not null" json:"recorded_at"`
}

func (StatusEntry) TableName() string { return "match_status_history" }
