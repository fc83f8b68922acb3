package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("notification not found")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ForRecipient lists a user's notifications, newest first. limit <= 0 means
// no limit.
func (r *Repo) ForRecipient(ctx context.Context, userID uint, limit int) ([]Notification, error) {
	q := r.db.WithContext(ctx).
		Where("recipient_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []Notification
	err := q.Find(&out).Error
	return out, err
}

func (r *Repo) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead flags one notification as read; the recipient filter prevents
// marking someone else's.
func (r *Repo) MarkRead(ctx context.Context, id, userID uint) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND recipient_id = ?", id, userID).
		Updates(map[string]any{"read": true, "read_at": now})
	if res.Error != nil {
		return fmt.Errorf("mark read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Updates(map[string]any{"read": true, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *Repo) Delete(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, userID).
		Delete(&Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
