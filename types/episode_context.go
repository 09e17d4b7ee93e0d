package types

import (
	"context"
	"fmt"
	"time"

	"github.com/zeu5/tetris-rl/tetris"
)

// EpisodeContext stores the information used and returned by an episode
type EpisodeContext struct {
	Context context.Context
	cancel  context.CancelFunc

	Episode int
	Phase   Phase
	// learning rate and exploration used during the episode
	Alpha   float64
	Epsilon float64

	Trace     *Trace
	Stats     tetris.GameStats
	Timesteps int

	// possible endings of the episode
	GameOver    bool
	HorizonEnd  bool
	Interrupted bool
	Err         error

	RunDuration time.Duration
	// weights after the episode ended
	Weights map[string]float64
}

func NewEpisodeContext(ctx context.Context, episode int, phase Phase, alpha, epsilon float64) *EpisodeContext {
	eCtx, cancel := context.WithCancel(ctx)
	return &EpisodeContext{
		Context: eCtx,
		cancel:  cancel,
		Episode: episode,
		Phase:   phase,
		Alpha:   alpha,
		Epsilon: epsilon,
		Trace:   NewTrace(),
		Weights: make(map[string]float64),
	}
}

func (e *EpisodeContext) SetError(err error) {
	e.Err = err
}

func (e *EpisodeContext) Cancel() {
	e.cancel()
}

// Cancelled is true if the run was stopped while the episode was running
func (e *EpisodeContext) Cancelled() bool {
	select {
	case <-e.Context.Done():
		return true
	default:
		return false
	}
}

// Ending describes how the episode finished
func (e *EpisodeContext) Ending() string {
	switch {
	case e.Err != nil:
		return "error"
	case e.GameOver:
		return "game_over"
	case e.HorizonEnd:
		return "horizon"
	case e.Interrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

func (e *EpisodeContext) String() string {
	return fmt.Sprintf("episode %d (%s): score=%d lines=%d pieces=%d steps=%d ending=%s",
		e.Episode, e.Phase, e.Stats.Score, e.Stats.Lines, e.Stats.Pieces, e.Timesteps, e.Ending())
}
