package comments

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/xaitan80/footbase/internal/db"
	"github.com/xaitan80/footbase/internal/lifecycle"
	"github.com/xaitan80/footbase/internal/notify"
)

func quiet() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func comment(author uint, body string) Comment {
	return Comment{MatchID: 1, AuthorID: author, Body: body}
}

func TestBlockedTermRule(t *testing.T) {
	r := BlockedTermRule{terms: defaultBlockedTerms}

	assert.True(t, r.Check(comment(1, "great match today")).OK)
	res := r.Check(comment(1, "what an IDIOT referee"))
	assert.False(t, res.OK)
	assert.Equal(t, "blocked terms", res.Rule)
}

func TestModerationChain_BlockedTermShortCircuits(t *testing.T) {
	guard := NewSpamGuard(0)
	c := NewModerationChain(guard, ModerationOptions{}, quiet())

	// body is also too short and would trip the length rule; the denylist
	// must report first
	res := c.Run(comment(1, "idiot"))
	assert.False(t, res.OK)
	assert.Equal(t, "blocked terms", res.Rule)
}

func TestSpamRule_MinInterval(t *testing.T) {
	guard := NewSpamGuard(10 * time.Second)
	base := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	now := base
	guard.now = func() time.Time { return now }

	r := SpamRule{guard: guard, log: quiet()}

	assert.True(t, r.Check(comment(7, "first comment")).OK)
	guard.Record(7)

	now = base.Add(5 * time.Second)
	res := r.Check(comment(7, "second comment"))
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "too fast")

	// another author is unaffected
	assert.True(t, r.Check(comment(8, "hello there")).OK)

	now = base.Add(11 * time.Second)
	assert.True(t, r.Check(comment(7, "third comment")).OK)
}

func TestSpamRule_RepeatedChars(t *testing.T) {
	r := SpamRule{guard: NewSpamGuard(0), log: quiet()}

	assert.True(t, r.Check(comment(1, "goooal")).OK, "5 in a row is fine")
	res := r.Check(comment(1, "goooooal!!"))
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "repeated")
}

func TestSpamRule_UppercaseWarnsOnly(t *testing.T) {
	r := SpamRule{guard: NewSpamGuard(0), log: quiet()}
	assert.True(t, r.Check(comment(1, "WHAT A GOAL THAT WAS")).OK)
}

func TestLengthRule(t *testing.T) {
	r := LengthRule{}

	assert.True(t, r.Check(comment(1, "ok!")).OK)
	assert.False(t, r.Check(comment(1, "hi")).OK)
	assert.False(t, r.Check(comment(1, "   ")).OK)
	assert.False(t, r.Check(comment(1, strings.Repeat("a ", 251))).OK)
	assert.True(t, r.Check(comment(1, strings.Repeat("ab", 250))).OK)

	// bounds count characters, not bytes
	assert.True(t, r.Check(comment(1, strings.Repeat("ö", 300))).OK)
	assert.True(t, r.Check(comment(1, strings.Repeat("ö", 500))).OK)
	assert.False(t, r.Check(comment(1, "öö")).OK)
}

func TestLinkRule(t *testing.T) {
	deny := LinkRule{allow: false}
	assert.True(t, deny.Check(comment(1, "no links here")).OK)
	assert.False(t, deny.Check(comment(1, "see https://example.com/highlights")).OK)

	allow := LinkRule{allow: true, max: 2}
	assert.True(t, allow.Check(comment(1, "see https://a.example and www.b.example")).OK)
	res := allow.Check(comment(1, "https://a.example https://b.example https://c.example"))
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "2 links")
}

func TestMaskProfanity(t *testing.T) {
	assert.Equal(t, "that was a **** good save", MaskProfanity("that was a damn good save"))
	assert.Equal(t, "clean text", MaskProfanity("clean text"))
	// whole word only
	assert.Equal(t, "hello world", MaskProfanity("hello world"))
}

type envT struct {
	svc     *Service
	guard   *SpamGuard
	tracker *lifecycle.Tracker
	now     time.Time
}

func newEnv(t *testing.T) *envT {
	t.Helper()
	d, err := dbpkg.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbpkg.AutoMigrate(d, &Comment{}, &lifecycle.StatusEntry{}, &notify.Notification{}))

	log := quiet()
	e := &envT{now: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	e.guard = NewSpamGuard(10 * time.Second)
	e.guard.now = func() time.Time { return e.now }
	e.tracker = lifecycle.NewTracker(d, nil, log)
	e.svc = NewService(NewRepo(d), e.guard, ModerationOptions{}, e.tracker, notify.NewRepo(d), log)

	// match 1 exists, created by editor 10
	require.NoError(t, e.tracker.Append(context.Background(), 1, lifecycle.StatusPending, 10))
	return e
}

func TestService_CreateRecordsSpamClock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	c, err := e.svc.Create(ctx, 1, 33, "  what a damn great match  ")
	require.NoError(t, err)
	assert.Equal(t, "what a **** great match", c.Body)

	// immediately again: spam guard trips
	_, err = e.svc.Create(ctx, 1, 33, "another thought")
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "spam", v.Result.Rule)

	e.now = e.now.Add(11 * time.Second)
	_, err = e.svc.Create(ctx, 1, 33, "another thought")
	assert.NoError(t, err)

	list, err := e.svc.ForMatch(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestService_RejectedCommentNotRecorded(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Create(ctx, 1, 44, "x")
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "length", v.Result.Rule)

	// rejection must not start the spam interval
	_, err = e.svc.Create(ctx, 1, 44, "a proper comment")
	assert.NoError(t, err)
}

func TestService_UnknownMatch(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Create(context.Background(), 999, 44, "a proper comment")
	assert.ErrorIs(t, err, lifecycle.ErrNoHistory)
}

func TestService_DeleteOwnOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	c, err := e.svc.Create(ctx, 1, 55, "my own comment")
	require.NoError(t, err)

	assert.ErrorIs(t, e.svc.DeleteOwn(ctx, c.ID, 56), ErrNotOwner)
	require.NoError(t, e.svc.DeleteOwn(ctx, c.ID, 55))
	assert.ErrorIs(t, e.svc.DeleteOwn(ctx, c.ID, 55), ErrNotFound)
}
