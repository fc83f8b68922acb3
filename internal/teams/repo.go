package teams

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("team not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(ctx context.Context, t *Team) error {
	t.Name = strings.TrimSpace(t.Name)
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repo) Update(ctx context.Context, t *Team) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *Repo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&Team{}, id).Error
}

func (r *Repo) Get(ctx context.Context, id uint) (Team, error) {
	var t Team
	err := r.db.WithContext(ctx).First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Team{}, ErrNotFound
	}
	return t, err
}

func (r *Repo) GetByName(ctx context.Context, name string) (Team, error) {
	var t Team
	err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Team{}, ErrNotFound
	}
	return t, err
}

// GetOrCreateByName resolves a team by name, creating it when missing.
// Used by the import flow where rows carry team names, not ids.
func (r *Repo) GetOrCreateByName(ctx context.Context, name string) (Team, error) {
	t, err := r.GetByName(ctx, name)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Team{}, err
	}
	t = Team{Name: strings.TrimSpace(name)}
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return Team{}, err
	}
	return t, nil
}

func (r *Repo) List(ctx context.Context) ([]Team, error) {
	var out []Team
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}
