package notify

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/xaitan80/footbase/internal/db"
)

func quiet() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	d, err := dbpkg.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(d, &Notification{}))
	return NewRepo(d)
}

// recorder counts deliveries; it can also panic on demand to prove
// isolation.
type recorder struct {
	id      uint
	updates int
	panics  bool
}

func (r *recorder) RecipientID() uint { return r.id }

func (r *recorder) Update(_ context.Context, _ Event) {
	r.updates++
	if r.panics {
		panic("observer blew up")
	}
}

func TestSubject_DedupByRecipient(t *testing.T) {
	s := NewSubject(quiet())
	a := &recorder{id: 1}
	dup := &recorder{id: 1}
	b := &recorder{id: 2}

	s.Attach(a)
	s.Attach(dup)
	s.Attach(b)
	assert.Equal(t, 2, s.Len())

	s.Notify(context.Background(), Event{Type: EventMatchStarted, MatchID: 5})
	assert.Equal(t, 1, a.updates)
	assert.Equal(t, 0, dup.updates)
	assert.Equal(t, 1, b.updates)
}

func TestSubject_Detach(t *testing.T) {
	s := NewSubject(quiet())
	a := &recorder{id: 1}
	b := &recorder{id: 2}
	s.Attach(a)
	s.Attach(b)
	s.Detach(a)
	assert.Equal(t, 1, s.Len())

	s.Notify(context.Background(), Event{Type: EventMatchStarted})
	assert.Equal(t, 0, a.updates)
	assert.Equal(t, 1, b.updates)
}

func TestSubject_PanickingObserverDoesNotBlockOthers(t *testing.T) {
	s := NewSubject(quiet())
	bad := &recorder{id: 1, panics: true}
	good := &recorder{id: 2}
	s.Attach(bad)
	s.Attach(good)

	s.Notify(context.Background(), Event{Type: EventMatchAdded, MatchID: 3})
	assert.Equal(t, 1, bad.updates)
	assert.Equal(t, 1, good.updates)
}

func TestRecipient_PersistsApprovalEventsOnly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	s := NewSubject(quiet())
	s.Attach(NewRecipient(7, repo, quiet()))

	ev := Event{MatchID: 12, HomeTeam: "Heim IF", AwayTeam: "Borta BK", ActorID: 20}
	for _, typ := range []string{
		EventMatchAdded, EventMatchPublished, EventMatchRejected,
		EventMatchStarted, EventMatchFinished, EventGoalScored, EventNewComment,
	} {
		ev.Type = typ
		s.Notify(ctx, ev)
	}

	rows, err := repo.ForRecipient(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3, "only added/published/rejected persist")
	for _, n := range rows {
		require.NotNil(t, n.MatchID)
		assert.Equal(t, uint(12), *n.MatchID)
		assert.Equal(t, "/matches/12", n.TargetURL)
		assert.Contains(t, n.Body, "Heim IF vs Borta BK")
		require.NotNil(t, n.SenderID)
		assert.Equal(t, uint(20), *n.SenderID)
		assert.False(t, n.Read)
	}
}

func TestRepo_ReadFlow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		mid := uint(i + 1)
		require.NoError(t, repo.Create(ctx, &Notification{
			RecipientID: 9, Type: EventMatchAdded, Title: "t", Body: "b", MatchID: &mid,
		}))
	}
	// someone else's row
	require.NoError(t, repo.Create(ctx, &Notification{RecipientID: 8, Type: EventMatchAdded}))

	n, err := repo.UnreadCount(ctx, 9)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	rows, err := repo.ForRecipient(ctx, 9, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	require.NoError(t, repo.MarkRead(ctx, rows[0].ID, 9))
	n, _ = repo.UnreadCount(ctx, 9)
	assert.EqualValues(t, 2, n)

	// cannot mark someone else's notification
	err = repo.MarkRead(ctx, rows[1].ID, 8)
	assert.ErrorIs(t, err, ErrNotFound)

	marked, err := repo.MarkAllRead(ctx, 9)
	require.NoError(t, err)
	assert.EqualValues(t, 2, marked)
	n, _ = repo.UnreadCount(ctx, 9)
	assert.Zero(t, n)
}
