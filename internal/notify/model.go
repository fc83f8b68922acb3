package notify

import "time"

// Notification is a persisted, per-recipient delivery of a lifecycle event.
// Delivery and persistence are the same step; there is no retry queue.
type Notification struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	RecipientID uint       `gorm:"index;not null" json:"recipient_id"`
	SenderID    *uint      `json:"sender_id,omitempty"`
	Type        string     `gorm:"size:50;not null" json:"type"`
	Title       string     `gorm:"not null" json:"title"`
	Body        string     `gorm:"size:1000;not null" json:"body"`
	MatchID     *uint      `gorm:"index" json:"match_id,omitempty"`
	Read        bool       `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time  `json:"created_at"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	TargetURL   string     `gorm:"size:500" json:"target_url,omitempty"`
}

func (Notification) TableName() string { return "notifications" }
