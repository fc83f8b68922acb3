package ratings

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrBadStars means the star value is outside 1-5.
var ErrBadStars = errors.New("stars must be between 1 and 5")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// Rate inserts or replaces the user's rating of a match.
func (r *Repo) Rate(ctx context.Context, matchID, userID uint, role string, stars int) (Rating, error) {
	if stars < 1 || stars > 5 {
		return Rating{}, fmt.Errorf("%w: got %d", ErrBadStars, stars)
	}
	rating := Rating{MatchID: matchID, UserID: userID, Role: role, Stars: stars}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"role", "stars"}),
	}).Create(&rating).Error
	if err != nil {
		return Rating{}, err
	}
	return rating, nil
}

// ForMatch returns all ratings of a match.
func (r *Repo) ForMatch(ctx context.Context, matchID uint) ([]Rating, error) {
	var out []Rating
	err := r.db.WithContext(ctx).Where("match_id = ?", matchID).Order("id").Find(&out).Error
	return out, err
}

// Summary is the aggregate view of a match's ratings.
type Summary struct {
	MatchID         uint    `json:"match_id"`
	Count           int     `json:"count"`
	WeightedAverage float64 `json:"weighted_average"`
}

// SummaryFor computes the role-weighted average rating of a match.
func (r *Repo) SummaryFor(ctx context.Context, matchID uint) (Summary, error) {
	rs, err := r.ForMatch(ctx, matchID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		MatchID:         matchID,
		Count:           len(rs),
		WeightedAverage: WeightedAverage(rs),
	}, nil
}
