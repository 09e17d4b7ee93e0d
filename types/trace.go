package types

import (
	"fmt"

	"github.com/zeu5/tetris-rl/tetris"
)

// Step is one decision of an episode
type Step struct {
	State     tetris.Snapshot `json:"state"`
	Plan      tetris.Plan     `json:"plan"`
	Q         float64         `json:"q"`
	NextState tetris.Snapshot `json:"next_state"`
	Reward    float64         `json:"reward"`
}

// Trace of an episode as (state, plan, nextState, reward) steps
type Trace struct {
	Steps []Step `json:"steps"`
}

func NewTrace() *Trace {
	return &Trace{
		Steps: make([]Step, 0),
	}
}

func (t *Trace) Append(step Step) {
	t.Steps = append(t.Steps, step)
}

func (t *Trace) Len() int {
	return len(t.Steps)
}

func (t *Trace) Get(i int) (Step, bool) {
	if i < 0 || i >= len(t.Steps) {
		return Step{}, false
	}
	return t.Steps[i], true
}

func (t *Trace) Last() (Step, bool) {
	if len(t.Steps) < 1 {
		return Step{}, false
	}
	return t.Steps[len(t.Steps)-1], true
}

func (t *Trace) Slice(from, to int) *Trace {
	sliced := NewTrace()
	for i := from; i < to && i < len(t.Steps); i++ {
		sliced.Append(t.Steps[i])
	}
	return sliced
}

// TotalReward sums the rewards of all the steps
func (t *Trace) TotalReward() float64 {
	total := 0.0
	for _, s := range t.Steps {
		total += s.Reward
	}
	return total
}

// ReadableTrace renders every step of the trace as text, one entry per step
func ReadableTrace(t *Trace) []string {
	out := make([]string, 0, len(t.Steps))
	for i, s := range t.Steps {
		out = append(out, fmt.Sprintf("Step %d\n%s\nPlan: %s (Q %f)\nReward: %.0f\n", i+1, s.State.String(), s.Plan, s.Q, s.Reward))
	}
	return out
}
