package teams

import "time"

type Team struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex" json:"name"`
	VenueName string    `gorm:"size:100" json:"venue_name"`
	City      string    `gorm:"size:100" json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

func (Team) TableName() string { return "teams" }
