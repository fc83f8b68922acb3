// Package chain implements an ordered, short-circuiting validation pipeline.
// Rules are independent checks with a fixed priority; the chain runs them in
// ascending priority order and stops at the first failure.
package chain

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Result is the outcome of a single rule or of a whole chain run.
// On failure, Rule names the rule that rejected and Message is its
// user-facing reason, passed through unchanged.
type Result struct {
	OK      bool   `json:"ok"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"message"`
}

func Pass() Result {
	return Result{OK: true, Message: "all checks passed"}
}

func Fail(rule, message string) Result {
	return Result{OK: false, Rule: rule, Message: message}
}

// Rule is a single validation step. Check must be free of side effects
// that change the chain outcome; logging is fine.
type Rule[T any] interface {
	Name() string
	Priority() int
	Check(subject T) Result
}

// Chain evaluates rules in priority order (lower runs first) and
// short-circuits on the first failure.
type Chain[T any] struct {
	rules []Rule[T]
	log   *logrus.Logger
}

func New[T any](log *logrus.Logger, rules ...Rule[T]) *Chain[T] {
	c := &Chain[T]{log: log}
	c.rules = append(c.rules, rules...)
	sort.SliceStable(c.rules, func(i, j int) bool {
		return c.rules[i].Priority() < c.rules[j].Priority()
	})
	return c
}

func (c *Chain[T]) Run(subject T) Result {
	for _, r := range c.rules {
		res := r.Check(subject)
		if !res.OK {
			if res.Rule == "" {
				res.Rule = r.Name()
			}
			c.log.WithFields(logrus.Fields{
				"rule":    res.Rule,
				"message": res.Message,
			}).Warn("chain check failed")
			return res
		}
		c.log.WithField("rule", r.Name()).Debug("chain check passed")
	}
	return Pass()
}

// Names lists the rules in execution order.
func (c *Chain[T]) Names() []string {
	out := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r.Name())
	}
	return out
}
