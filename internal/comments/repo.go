package comments

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("comment not found")
	// ErrNotOwner means someone tried to delete another author's comment.
	ErrNotOwner = errors.New("comment belongs to another author")
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ForMatch lists a match's comments, oldest first.
func (r *Repo) ForMatch(ctx context.Context, matchID uint) ([]Comment, error) {
	var out []Comment
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at, id").
		Find(&out).Error
	return out, err
}

func (r *Repo) Get(ctx context.Context, id uint) (Comment, error) {
	var c Comment
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Comment{}, ErrNotFound
	}
	return c, err
}

// DeleteOwn removes a comment only if authorID wrote it.
func (r *Repo) DeleteOwn(ctx context.Context, id, authorID uint) error {
	c, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.AuthorID != authorID {
		return ErrNotOwner
	}
	return r.db.WithContext(ctx).Delete(&Comment{}, id).Error
}
