package matches

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xaitan80/footbase/internal/command"
)

var ErrNotFound = errors.New("match not found")

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// Create persists the match together with its participant rows.
func (r *Repo) Create(ctx context.Context, m *Match) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repo) Get(ctx context.Context, id uint) (Match, error) {
	var m Match
	err := r.db.WithContext(ctx).
		Preload("Participants").Preload("Participants.Team").
		First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Match{}, ErrNotFound
	}
	return m, err
}

func (r *Repo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&Participant{}, "match_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Match{}, id).Error
	})
}

// ByIDs loads the given matches with participants, ordered by kickoff.
func (r *Repo) ByIDs(ctx context.Context, ids []uint) ([]Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []Match
	err := r.db.WithContext(ctx).
		Preload("Participants").Preload("Participants.Team").
		Where("id IN ?", ids).
		Order("date, time, id").
		Find(&out).Error
	return out, err
}

// ParticipantScores implements command.ScoreStore.
func (r *Repo) ParticipantScores(ctx context.Context, matchID uint) ([]command.ParticipantScore, error) {
	var rows []Participant
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("home DESC, id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]command.ParticipantScore, 0, len(rows))
	for _, p := range rows {
		out = append(out, command.ParticipantScore{ID: p.ID, Home: p.Home, Score: p.Score})
	}
	return out, nil
}

// SetParticipantScore implements command.ScoreStore.
func (r *Repo) SetParticipantScore(ctx context.Context, participantID uint, score int) error {
	res := r.db.WithContext(ctx).Model(&Participant{}).
		Where("id = ?", participantID).
		Update("score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PlayStatus implements command.StatusStore.
func (r *Repo) PlayStatus(ctx context.Context, matchID uint) (string, error) {
	var m Match
	err := r.db.WithContext(ctx).Select("play_status").First(&m, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	return m.PlayStatus, err
}

// SetPlayStatus implements command.StatusStore.
func (r *Repo) SetPlayStatus(ctx context.Context, matchID uint, status string) error {
	res := r.db.WithContext(ctx).Model(&Match{}).
		Where("id = ?", matchID).
		Update("play_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
