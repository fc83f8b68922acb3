package comments

import "time"

type Comment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	MatchID   uint      `gorm:"index" json:"match_id"`
	AuthorID  uint      `gorm:"index" json:"author_id"`
	Body      string    `gorm:"size:500" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }
