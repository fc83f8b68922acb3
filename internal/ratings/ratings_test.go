package ratings

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaitan80/footbase/internal/auth"
	dbpkg "github.com/xaitan80/footbase/internal/db"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	d, err := dbpkg.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(d, &Rating{}))
	return NewRepo(d)
}

func TestWeightForRole(t *testing.T) {
	assert.Equal(t, 3.0, WeightForRole(auth.RoleAdmin))
	assert.Equal(t, 2.0, WeightForRole(auth.RoleEditor))
	assert.Equal(t, 1.0, WeightForRole(auth.RoleUser))
	assert.Equal(t, 1.0, WeightForRole("SOMETHING_ELSE"))
}

func TestWeightedAverage(t *testing.T) {
	assert.Zero(t, WeightedAverage(nil))

	rs := []Rating{
		{Role: auth.RoleAdmin, Stars: 5},  // weight 3
		{Role: auth.RoleEditor, Stars: 4}, // weight 2
		{Role: auth.RoleUser, Stars: 1},   // weight 1
	}
	// (3*5 + 2*4 + 1*1) / 6 = 24/6
	assert.InDelta(t, 4.0, WeightedAverage(rs), 1e-9)
}

func TestRate_BoundsAndUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Rate(ctx, 1, 10, auth.RoleUser, 0)
	assert.ErrorIs(t, err, ErrBadStars)
	_, err = repo.Rate(ctx, 1, 10, auth.RoleUser, 6)
	assert.ErrorIs(t, err, ErrBadStars)

	_, err = repo.Rate(ctx, 1, 10, auth.RoleUser, 2)
	require.NoError(t, err)
	// re-rating replaces, does not duplicate
	_, err = repo.Rate(ctx, 1, 10, auth.RoleUser, 5)
	require.NoError(t, err)

	rs, err := repo.ForMatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, 5, rs[0].Stars)
}

func TestSummaryFor(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Rate(ctx, 7, 1, auth.RoleAdmin, 5)
	require.NoError(t, err)
	_, err = repo.Rate(ctx, 7, 2, auth.RoleUser, 1)
	require.NoError(t, err)
	// another match does not leak in
	_, err = repo.Rate(ctx, 8, 3, auth.RoleUser, 3)
	require.NoError(t, err)

	sum, err := repo.SummaryFor(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Count)
	assert.True(t, math.Abs(sum.WeightedAverage-4.0) < 1e-9) // (15+1)/4
}
