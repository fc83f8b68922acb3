package command

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Invoker executes commands and records the successful ones in history.
type Invoker struct {
	history *History
	log     *logrus.Logger
}

func NewInvoker(history *History, log *logrus.Logger) *Invoker {
	return &Invoker{history: history, log: log}
}

// Execute runs the command; only a successful execution lands on the undo
// stack.
func (i *Invoker) Execute(ctx context.Context, cmd Command) bool {
	i.log.WithField("command", cmd.Description()).Info("executing command")
	if !cmd.Execute(ctx) {
		i.log.WithField("command", cmd.Description()).Error("command failed")
		return false
	}
	i.history.Push(cmd)
	return true
}

func (i *Invoker) History() *History { return i.history }
