package matches

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/xaitan80/footbase/internal/chain"
	"github.com/xaitan80/footbase/internal/command"
	"github.com/xaitan80/footbase/internal/lifecycle"
	"github.com/xaitan80/footbase/internal/notify"
	"github.com/xaitan80/footbase/internal/teams"
)

// ValidationError carries a failed chain result across the service
// boundary so handlers can render the rule name and message.
type ValidationError struct {
	Result chain.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Result.Rule, e.Result.Message)
}

// ErrPlayState means a start/finish was attempted out of order.
var ErrPlayState = errors.New("illegal play status transition")

// Result is the payload every command-engine operation returns: success
// flag, human message, the fields the operation produced, and the stack
// counters afterwards.
type Result struct {
	OK          bool   `json:"ok"`
	Message     string `json:"message"`
	HomeScore   int    `json:"home_score,omitempty"`
	AwayScore   int    `json:"away_score,omitempty"`
	Outcome     string `json:"outcome,omitempty"`
	HistorySize int    `json:"history_size"`
	RedoSize    int    `json:"redo_size"`
}

// CommandEntry is the read model for the command log.
type CommandEntry struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	ActorID     uint   `json:"actor_id"`
	CreatedAt   string `json:"created_at"`
	Description string `json:"description"`
	Executed    bool   `json:"executed"`
}

// Service drives the match workflow: validation, approval lifecycle,
// score commands and notification fan-out.
type Service struct {
	repo          *Repo
	teams         *teams.Repo
	tracker       *lifecycle.Tracker
	invoker       *command.Invoker
	approval      *chain.Chain[Match]
	notifications *notify.Repo
	supervisors   lifecycle.SupervisorLookup
	log           *logrus.Logger
}

func NewService(repo *Repo, teamRepo *teams.Repo, tracker *lifecycle.Tracker, invoker *command.Invoker,
	notifications *notify.Repo, supervisors lifecycle.SupervisorLookup, log *logrus.Logger) *Service {
	return &Service{
		repo:          repo,
		teams:         teamRepo,
		tracker:       tracker,
		invoker:       invoker,
		approval:      NewApprovalChain(log),
		notifications: notifications,
		supervisors:   supervisors,
		log:           log,
	}
}

// CreateByEditor validates and persists a new match, opens its approval
// history as PENDING, and notifies the editor's supervising admin.
func (s *Service) CreateByEditor(ctx context.Context, editorID uint, m Match) (Match, error) {
	m.ID = 0
	m.PlayStatus = lifecycle.PlayPlanned
	if res := s.approval.Run(m); !res.OK {
		return Match{}, &ValidationError{Result: res}
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		return Match{}, fmt.Errorf("create match: %w", err)
	}
	if err := s.tracker.Append(ctx, m.ID, lifecycle.StatusPending, editorID); err != nil {
		return Match{}, err
	}
	created, err := s.repo.Get(ctx, m.ID)
	if err != nil {
		return Match{}, err
	}
	if sup, err := s.supervisors.SupervisorOf(ctx, editorID); err == nil {
		s.fanOut(ctx, notify.EventMatchAdded, created, editorID, sup)
	} else {
		s.log.WithField("editor", editorID).WithError(err).
			Warn("no supervising admin to notify about new match")
	}
	return created, nil
}

// Publish moves a pending match to PUBLISHED and notifies its original
// author.
func (s *Service) Publish(ctx context.Context, matchID, adminID uint) error {
	return s.decide(ctx, matchID, adminID, true)
}

// Reject moves a pending match to REJECTED and notifies its original
// author.
func (s *Service) Reject(ctx context.Context, matchID, adminID uint) error {
	return s.decide(ctx, matchID, adminID, false)
}

func (s *Service) decide(ctx context.Context, matchID, adminID uint, publish bool) error {
	author, err := s.tracker.OriginalAuthor(ctx, matchID)
	if err != nil {
		return err
	}
	event := notify.EventMatchRejected
	if publish {
		event = notify.EventMatchPublished
		err = s.tracker.Publish(ctx, matchID, adminID)
	} else {
		err = s.tracker.Reject(ctx, matchID, adminID)
	}
	if err != nil {
		return err
	}
	if m, err := s.repo.Get(ctx, matchID); err == nil {
		s.fanOut(ctx, event, m, adminID, author)
	}
	return nil
}

// Start moves a planned match into play. Only the original author may.
func (s *Service) Start(ctx context.Context, matchID, actorID uint) error {
	return s.play(ctx, matchID, actorID, lifecycle.PlayPlanned, lifecycle.PlayStarted, notify.EventMatchStarted)
}

// Finish ends a started match. Only the original author may.
func (s *Service) Finish(ctx context.Context, matchID, actorID uint) error {
	return s.play(ctx, matchID, actorID, lifecycle.PlayStarted, lifecycle.PlayFinished, notify.EventMatchFinished)
}

func (s *Service) play(ctx context.Context, matchID, actorID uint, from, to, event string) error {
	if err := s.tracker.RequireAuthor(ctx, matchID, actorID); err != nil {
		return err
	}
	cur, err := s.repo.PlayStatus(ctx, matchID)
	if err != nil {
		return err
	}
	if cur != from {
		return fmt.Errorf("%w: play status is %s, expected %s", ErrPlayState, cur, from)
	}
	if err := s.repo.SetPlayStatus(ctx, matchID, to); err != nil {
		return err
	}
	if m, err := s.repo.Get(ctx, matchID); err == nil {
		s.fanOut(ctx, event, m, actorID, actorID)
	}
	return nil
}

// EnterScore records both scores as one reversible command.
func (s *Service) EnterScore(ctx context.Context, matchID, actorID uint, home, away int) (Result, error) {
	if err := s.tracker.RequireAuthor(ctx, matchID, actorID); err != nil {
		return Result{}, err
	}
	cmd := command.NewScoreEntry(s.repo, matchID, home, away, actorID, s.log)
	ok := s.invoker.Execute(ctx, cmd)
	res := s.result(ok, "scores recorded", "score entry failed")
	res.HomeScore, res.AwayScore = home, away
	return res, nil
}

// Finalize writes the final scores and moves play status to FINISHED as a
// single reversible unit, reporting the outcome classification.
func (s *Service) Finalize(ctx context.Context, matchID, actorID uint, home, away int) (Result, error) {
	if err := s.tracker.RequireAuthor(ctx, matchID, actorID); err != nil {
		return Result{}, err
	}
	cmd := command.NewFinalize(s.repo, s.repo, matchID, home, away, lifecycle.PlayFinished, actorID, s.log)
	ok := s.invoker.Execute(ctx, cmd)
	res := s.result(ok, "match finalized", "finalize failed")
	if ok {
		res.HomeScore, res.AwayScore = home, away
		res.Outcome = cmd.Outcome()
	}
	return res, nil
}

// Undo reverses the actor's most recent command. Someone else's command on
// top of the stack is an authorization failure.
func (s *Service) Undo(ctx context.Context, actorID uint) (Result, error) {
	err := s.invoker.History().UndoByActor(ctx, actorID)
	switch {
	case err == nil:
		return s.result(true, "command undone", ""), nil
	case errors.Is(err, command.ErrNotOwner):
		return Result{}, fmt.Errorf("%w: %v", lifecycle.ErrNotAuthorized, err)
	case errors.Is(err, command.ErrEmptyHistory):
		return s.result(false, "", "nothing to undo"), nil
	default:
		return s.result(false, "", "undo failed"), nil
	}
}

// Redo re-applies the most recently undone command.
func (s *Service) Redo(ctx context.Context) (Result, error) {
	err := s.invoker.History().Redo(ctx)
	switch {
	case err == nil:
		return s.result(true, "command redone", ""), nil
	case errors.Is(err, command.ErrEmptyRedo):
		return s.result(false, "", "nothing to redo"), nil
	default:
		return s.result(false, "", "redo failed"), nil
	}
}

// CommandLog returns up to n recent commands, newest first.
func (s *Service) CommandLog(n int) []CommandEntry {
	cmds := s.invoker.History().Recent(n)
	out := make([]CommandEntry, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, CommandEntry{
			ID:          c.ID(),
			Type:        c.Type(),
			ActorID:     c.ActorID(),
			CreatedAt:   c.CreatedAt().Format("2006-01-02 15:04:05"),
			Description: c.Description(),
			Executed:    c.Executed(),
		})
	}
	return out
}

// Published lists matches whose current approval status is PUBLISHED.
func (s *Service) Published(ctx context.Context) ([]Match, error) {
	ids, err := s.tracker.MatchIDsWithCurrent(ctx, lifecycle.StatusPublished)
	if err != nil {
		return nil, err
	}
	return s.repo.ByIDs(ctx, ids)
}

// PendingForAdmin lists PENDING matches whose original author the admin
// supervises.
func (s *Service) PendingForAdmin(ctx context.Context, adminID uint) ([]Match, error) {
	ids, err := s.tracker.MatchIDsWithCurrent(ctx, lifecycle.StatusPending)
	if err != nil {
		return nil, err
	}
	var mine []uint
	for _, id := range ids {
		author, err := s.tracker.OriginalAuthor(ctx, id)
		if err != nil {
			continue
		}
		sup, err := s.supervisors.SupervisorOf(ctx, author)
		if err != nil || sup != adminID {
			continue
		}
		mine = append(mine, id)
	}
	return s.repo.ByIDs(ctx, mine)
}

// OwnedByEditor lists matches the editor originally created, whatever their
// current status.
func (s *Service) OwnedByEditor(ctx context.Context, editorID uint) ([]Match, error) {
	ids, err := s.tracker.MatchIDsByAuthor(ctx, editorID)
	if err != nil {
		return nil, err
	}
	return s.repo.ByIDs(ctx, ids)
}

// Get returns a single match with participants.
func (s *Service) Get(ctx context.Context, id uint) (Match, error) {
	return s.repo.Get(ctx, id)
}

// History returns the full approval history for a match, oldest first.
func (s *Service) History(ctx context.Context, matchID uint) ([]lifecycle.StatusEntry, error) {
	return s.tracker.Entries(ctx, matchID)
}

// Status returns the derived current approval status.
func (s *Service) Status(ctx context.Context, matchID uint) (string, error) {
	return s.tracker.Current(ctx, matchID)
}

// ImportReport summarizes a bulk upload.
type ImportReport struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Import creates pending matches from parsed upload rows. Team names are
// resolved or created; each row goes through the normal editor create path
// so validation and notifications apply.
func (s *Service) Import(ctx context.Context, editorID uint, rows []ImportRow) ImportReport {
	var rep ImportReport
	for i, row := range rows {
		m, err := s.importRow(ctx, editorID, row)
		if err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		rep.Imported++
		s.log.WithFields(logrus.Fields{"match": m.ID, "editor": editorID}).Debug("match imported")
	}
	return rep
}

func (s *Service) importRow(ctx context.Context, editorID uint, row ImportRow) (Match, error) {
	if row.HomeTeam == "" || row.AwayTeam == "" {
		return Match{}, fmt.Errorf("home and away team are required")
	}
	home, err := s.teams.GetOrCreateByName(ctx, row.HomeTeam)
	if err != nil {
		return Match{}, fmt.Errorf("home team: %w", err)
	}
	away, err := s.teams.GetOrCreateByName(ctx, row.AwayTeam)
	if err != nil {
		return Match{}, fmt.Errorf("away team: %w", err)
	}
	return s.CreateByEditor(ctx, editorID, Match{
		Date:        row.Date,
		Time:        row.Time,
		Venue:       row.Venue,
		Referee:     row.Referee,
		Competition: row.Competition,
		Note:        row.Note,
		Participants: []Participant{
			{TeamID: home.ID, Home: true},
			{TeamID: away.ID, Home: false},
		},
	})
}

// fanOut builds a per-operation subject with a single recipient and
// delivers the event. Delivery problems never surface to the caller.
func (s *Service) fanOut(ctx context.Context, event string, m Match, actorID, recipientID uint) {
	ev := notify.Event{Type: event, MatchID: m.ID, ActorID: actorID}
	if home, away, ok := m.Sides(); ok {
		ev.HomeTeam = home.Team.Name
		ev.AwayTeam = away.Team.Name
	}
	subject := notify.NewSubject(s.log)
	subject.Attach(notify.NewRecipient(recipientID, s.notifications, s.log))
	subject.Notify(ctx, ev)
}

func (s *Service) result(ok bool, okMsg, failMsg string) Result {
	msg := okMsg
	if !ok {
		msg = failMsg
	}
	return Result{
		OK:          ok,
		Message:     msg,
		HistorySize: s.invoker.History().Size(),
		RedoSize:    s.invoker.History().RedoSize(),
	}
}
