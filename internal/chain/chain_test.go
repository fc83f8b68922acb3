package chain

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type countingRule struct {
	name     string
	priority int
	pass     bool
	calls    int
}

func (r *countingRule) Name() string  { return r.name }
func (r *countingRule) Priority() int { return r.priority }
func (r *countingRule) Check(_ int) Result {
	r.calls++
	if r.pass {
		return Pass()
	}
	return Fail(r.name, "rejected by "+r.name)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestChain_AllPass(t *testing.T) {
	a := &countingRule{name: "a", priority: 1, pass: true}
	b := &countingRule{name: "b", priority: 2, pass: true}
	c := New[int](quietLogger(), a, b)

	res := c.Run(0)
	assert.True(t, res.OK)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestChain_ShortCircuitsOnFirstFailure(t *testing.T) {
	a := &countingRule{name: "a", priority: 1, pass: true}
	b := &countingRule{name: "b", priority: 2, pass: false}
	d := &countingRule{name: "c", priority: 3, pass: true}
	c := New[int](quietLogger(), a, b, d)

	res := c.Run(0)
	assert.False(t, res.OK)
	assert.Equal(t, "b", res.Rule)
	assert.Equal(t, "rejected by b", res.Message)
	assert.Equal(t, 0, d.calls, "rules after the failing one must not run")
}

func TestChain_PriorityOrdersExecution(t *testing.T) {
	// Registered out of order; the lower priority must still fail first.
	hi := &countingRule{name: "hi", priority: 9, pass: false}
	lo := &countingRule{name: "lo", priority: 1, pass: false}
	c := New[int](quietLogger(), hi, lo)

	res := c.Run(0)
	assert.Equal(t, "lo", res.Rule)
	assert.Equal(t, 0, hi.calls)
	assert.Equal(t, []string{"lo", "hi"}, c.Names())
}

func TestChain_Idempotent(t *testing.T) {
	a := &countingRule{name: "a", priority: 1, pass: true}
	b := &countingRule{name: "b", priority: 2, pass: false}
	c := New[int](quietLogger(), a, b)

	first := c.Run(0)
	second := c.Run(0)
	assert.Equal(t, first, second)
}
