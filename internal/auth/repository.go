package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository { return &Repository{db: db} }

// CreateUser inserts a new user. The first user in an empty database is
// made an admin so the instance can be bootstrapped.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&User{}).Count(&cnt).Error; err != nil {
			return err
		}
		role := RoleUser
		if cnt == 0 {
			role = RoleAdmin
		}
		u = User{Email: email, PasswordHash: passwordHash, Role: role}
		return tx.Create(&u).Error
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *Repository) SetRole(ctx context.Context, userID uint, role string) error {
	switch role {
	case RoleUser, RoleEditor, RoleAdmin:
	default:
		return fmt.Errorf("unknown role %q", role)
	}
	res := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// NewToken returns a cryptographically secure random token (hex-64).
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (r *Repository) CreateSession(ctx context.Context, userID uint, ttl time.Duration) (Session, error) {
	tok, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	s := Session{Token: tok, UserID: userID, ExpiresAt: time.Now().Add(ttl).UTC()}
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&Session{}, "token = ?", token).Error
}

func (r *Repository) GetUserBySession(ctx context.Context, token string) (User, error) {
	// Opportunistic cleanup of expired sessions; failure is non-fatal.
	_ = r.db.WithContext(ctx).Delete(&Session{}, "expires_at < ?", time.Now().UTC()).Error

	var s Session
	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now().UTC()).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return r.GetUserByID(ctx, s.UserID)
}

// AssignSupervisor sets (or replaces) the admin supervising an editor.
func (r *Repository) AssignSupervisor(ctx context.Context, editorID, adminID uint) error {
	editor, err := r.GetUserByID(ctx, editorID)
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if editor.Role != RoleEditor {
		return fmt.Errorf("user %d is not an editor", editorID)
	}
	admin, err := r.GetUserByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("admin: %w", err)
	}
	if admin.Role != RoleAdmin {
		return fmt.Errorf("user %d is not an admin", adminID)
	}
	sup := Supervision{EditorID: editorID, AdminID: adminID}
	return r.db.WithContext(ctx).Save(&sup).Error
}

// SupervisorOf resolves the supervising admin of an editor. Satisfies
// lifecycle.SupervisorLookup.
func (r *Repository) SupervisorOf(ctx context.Context, editorID uint) (uint, error) {
	var sup Supervision
	err := r.db.WithContext(ctx).Where("editor_id = ?", editorID).First(&sup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return sup.AdminID, nil
}

// EditorsOf lists the editors supervised by an admin.
func (r *Repository) EditorsOf(ctx context.Context, adminID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&Supervision{}).
		Where("admin_id = ?", adminID).
		Pluck("editor_id", &ids).Error
	return ids, err
}
