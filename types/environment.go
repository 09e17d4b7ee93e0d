package types

import (
	"github.com/zeu5/tetris-rl/policies"
	"github.com/zeu5/tetris-rl/tetris"
)

// Environment is the live game the agent plays.
// Execute applies a single primitive input; AdvanceToNextPiece hard drops.
type Environment interface {
	// Reset starts a new game and returns its first state
	Reset() tetris.Snapshot
	// Capture returns a snapshot that owns its board
	Capture() tetris.Snapshot
	Execute(tetris.Action)
	Stats() tetris.GameStats
}

// Policy decides the plan to play from a state and learns from the outcome
type Policy interface {
	ChooseActionSequence(tetris.Snapshot) policies.Candidate
	// NotifyOutcome returns the reward of the transition
	NotifyOutcome(before tetris.Snapshot, seq tetris.Sequence, after tetris.Snapshot) float64
	SetAlpha(float64)
	SetEpsilon(float64)
	Weights() *policies.Weights
	// Reset forgets everything learned
	Reset()
	// Record the learned values to a file
	Record(string) error
}

var _ Environment = (*tetris.Game)(nil)
var _ Policy = (*policies.TDPolicy)(nil)
