package auth

import "time"

// Roles. The first registered user becomes an admin; everyone else starts
// as a regular user and is promoted by an admin.
const (
	RoleUser   = "USER"
	RoleEditor = "EDITOR"
	RoleAdmin  = "ADMIN"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;not null;default:USER" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

type Session struct {
	Token     string    `gorm:"primaryKey"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}

func (Session) TableName() string { return "sessions" }

// Supervision records which admin supervises which editor. It is the
// read-only input used to resolve who gets notified about, and who may
// approve, an editor's matches.
type Supervision struct {
	EditorID  uint `gorm:"primaryKey" json:"editor_id"`
	AdminID   uint `gorm:"index;not null" json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (Supervision) TableName() string { return "editor_admins" }
