package ratings

import "time"

// Rating is one user's 1-5 star rating of a match. The rater's role is
// snapshotted at rating time so the weighting stays stable if roles change
// later.
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	MatchID   uint      `gorm:"uniqueIndex:idx_ratings_match_user" json:"match_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_ratings_match_user" json:"user_id"`
	Role      string    `gorm:"size:20" json:"role"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"`
}

func (Rating) TableName() string { return "match_ratings" }
