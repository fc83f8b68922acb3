package lifecycle

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubSupervisors map[uint]uint

func (s stubSupervisors) SupervisorOf(_ context.Context, editorID uint) (uint, error) {
	if admin, ok := s[editorID]; ok {
		return admin, nil
	}
	return 0, gorm.ErrRecordNotFound
}

func newTestTracker(t *testing.T, sup stubSupervisors) *Tracker {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	d, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, d.AutoMigrate(&StatusEntry{}))
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewTracker(d, sup, log)
}

func TestCurrent_MaxTimestampWins(t *testing.T) {
	tr := newTestTracker(t, stubSupervisors{})
	ctx := context.Background()

	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)

	// Insert out of order; only the timestamp should matter.
	for _, e := range []struct {
		ts     time.Time
		status string
	}{
		{t2, StatusPublished},
		{t3, StatusRejected},
		{t1, StatusPending},
	} {
		tr.now = func() time.Time { return e.ts }
		require.NoError(t, tr.Append(ctx, 7, e.status, 1))
	}

	cur, err := tr.Current(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, cur)

	author, err := tr.OriginalAuthor(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, uint(1), author)
}

func TestCurrent_TieBrokenByInsertionOrder(t *testing.T) {
	tr := newTestTracker(t, stubSupervisors{})
	ctx := context.Background()

	ts := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return ts }
	require.NoError(t, tr.Append(ctx, 3, StatusPending, 4))
	require.NoError(t, tr.Append(ctx, 3, StatusPublished, 5))

	cur, err := tr.Current(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, cur, "later insert wins a timestamp tie")
}

func TestCurrent_NoHistory(t *testing.T) {
	tr := newTestTracker(t, stubSupervisors{})
	_, err := tr.Current(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestPublish_OnlyFromPending(t *testing.T) {
	sup := stubSupervisors{10: 20}
	tr := newTestTracker(t, sup)
	ctx := context.Background()

	require.NoError(t, tr.Append(ctx, 1, StatusPending, 10))
	require.NoError(t, tr.Publish(ctx, 1, 20))

	cur, err := tr.Current(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, cur)

	// Already published: a second transition must fail, not silently succeed.
	err = tr.Reject(ctx, 1, 20)
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestPublish_RequiresSupervisingAdmin(t *testing.T) {
	sup := stubSupervisors{10: 20}
	tr := newTestTracker(t, sup)
	ctx := context.Background()

	require.NoError(t, tr.Append(ctx, 1, StatusPending, 10))

	err := tr.Publish(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Author with no supervisor on record is also an authorization failure.
	require.NoError(t, tr.Append(ctx, 2, StatusPending, 11))
	err = tr.Publish(ctx, 2, 20)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestOriginalAuthor_IsEarliestActor(t *testing.T) {
	sup := stubSupervisors{10: 20}
	tr := newTestTracker(t, sup)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return base }
	require.NoError(t, tr.Append(ctx, 1, StatusPending, 10))
	tr.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, tr.Append(ctx, 1, StatusPublished, 20))

	// Approval by the admin must not change authorship.
	require.NoError(t, tr.RequireAuthor(ctx, 1, 10))
	assert.ErrorIs(t, tr.RequireAuthor(ctx, 1, 20), ErrNotAuthorized)
}

func TestMatchIDsWithCurrent(t *testing.T) {
	sup := stubSupervisors{10: 20}
	tr := newTestTracker(t, sup)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	step := 0
	tr.now = func() time.Time { step++; return base.Add(time.Duration(step) * time.Second) }

	require.NoError(t, tr.Append(ctx, 1, StatusPending, 10))
	require.NoError(t, tr.Append(ctx, 2, StatusPending, 10))
	require.NoError(t, tr.Publish(ctx, 2, 20))
	require.NoError(t, tr.Append(ctx, 3, StatusPending, 10))

	pending, err := tr.MatchIDsWithCurrent(ctx, StatusPending)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 3}, pending)

	published, err := tr.MatchIDsWithCurrent(ctx, StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, published)
}
