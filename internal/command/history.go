package command

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// MaxHistorySize bounds the undo stack; the oldest command is evicted when
// it overflows.
const MaxHistorySize = 50

var (
	// ErrEmptyHistory means there is nothing to undo.
	ErrEmptyHistory = errors.New("no command to undo")
	// ErrEmptyRedo means there is nothing to redo.
	ErrEmptyRedo = errors.New("no command to redo")
	// ErrNotOwner means the top-of-stack command belongs to another actor.
	ErrNotOwner = errors.New("most recent command belongs to another actor")
	// ErrUndoFailed means the command refused or failed to reverse; it
	// stays on the history stack.
	ErrUndoFailed = errors.New("undo failed")
	// ErrRedoFailed means the command failed to re-apply; it stays on the
	// redo stack.
	ErrRedoFailed = errors.New("redo failed")
)

// History is the process-wide undo/redo stack pair. It is shared across
// actors; commands from different actors interleave, which is why
// UndoByActor exists. Access is serialized by an internal mutex.
type History struct {
	mu   sync.Mutex
	hist []Command
	redo []Command
	max  int
	log  *logrus.Logger
}

func NewHistory(log *logrus.Logger) *History {
	return &History{max: MaxHistorySize, log: log}
}

// Push records an executed command. Overflow evicts the oldest entry, and
// any push clears the redo stack: there is no alternate-timeline redo
// after a new action.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.hist) >= h.max {
		h.hist = h.hist[1:]
		h.log.Debug("history full, oldest command evicted")
	}
	h.hist = append(h.hist, cmd)
	h.redo = nil
	h.log.WithFields(logrus.Fields{"command": cmd.Type(), "size": len(h.hist)}).
		Info("command pushed to history")
}

// Undo reverses the most recent command. On success the command moves to
// the redo stack; on failure it is restored to history unchanged.
func (h *History) Undo(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.undoLocked(ctx)
}

// UndoByActor is Undo restricted to the requesting actor: if the
// top-of-stack command was authored by someone else the undo is refused.
// It does not search deeper in the stack.
func (h *History) UndoByActor(ctx context.Context, actorID uint) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.hist) == 0 {
		return ErrEmptyHistory
	}
	top := h.hist[len(h.hist)-1]
	if top.ActorID() != actorID {
		h.log.WithFields(logrus.Fields{"actor": actorID, "owner": top.ActorID()}).
			Warn("undo refused: not command owner")
		return ErrNotOwner
	}
	return h.undoLocked(ctx)
}

func (h *History) undoLocked(ctx context.Context) error {
	if len(h.hist) == 0 {
		return ErrEmptyHistory
	}
	cmd := h.hist[len(h.hist)-1]
	h.hist = h.hist[:len(h.hist)-1]

	if !cmd.Undo(ctx) {
		h.hist = append(h.hist, cmd)
		return ErrUndoFailed
	}
	h.redo = append(h.redo, cmd)
	return nil
}

// Redo re-applies the most recently undone command.
func (h *History) Redo(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redo) == 0 {
		return ErrEmptyRedo
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]

	if !cmd.Redo(ctx) {
		h.redo = append(h.redo, cmd)
		return ErrRedoFailed
	}
	h.hist = append(h.hist, cmd)
	return nil
}

// Peek returns the most recent command without undoing it, or nil.
func (h *History) Peek() Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.hist) == 0 {
		return nil
	}
	return h.hist[len(h.hist)-1]
}

// Recent returns up to n commands, newest first.
func (h *History) Recent(n int) []Command {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > len(h.hist) {
		n = len(h.hist)
	}
	out := make([]Command, 0, n)
	for i := len(h.hist) - 1; i >= len(h.hist)-n; i-- {
		out = append(out, h.hist[i])
	}
	return out
}

func (h *History) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.hist)
}

func (h *History) RedoSize() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.hist) + len(h.redo)
	h.hist = nil
	h.redo = nil
	h.log.WithField("dropped", n).Info("command history cleared")
}
