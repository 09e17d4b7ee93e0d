package types

import (
	"github.com/rs/zerolog/log"
	"github.com/zeu5/tetris-rl/tetris"
)

type AgentConfig struct {
	// Horizon bounds the decisions of an episode, 0 for none
	Horizon     int
	Policy      Policy
	Environment Environment
}

// Agent plays episodes of the environment with the policy
type Agent struct {
	config      *AgentConfig
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// RunEpisode plays one game until it ends, the horizon is reached or the
// episode context is cancelled. The results are stored in eCtx.
func (a *Agent) RunEpisode(eCtx *EpisodeContext) {
	state := a.environment.Reset()

	for i := 0; a.config.Horizon <= 0 || i < a.config.Horizon; i++ {
		if state.GameOver {
			break
		}
		if eCtx.Cancelled() {
			eCtx.Stats = a.environment.Stats()
			eCtx.Interrupted = true
			return
		}
		next, step := a.step(state)
		eCtx.Trace.Append(step)
		eCtx.Timesteps += 1
		state = next
	}

	eCtx.Stats = a.environment.Stats()
	if state.GameOver {
		eCtx.GameOver = true
	} else {
		eCtx.HorizonEnd = true
	}
}

// step runs one decision cycle: choose, execute the first piece's moves,
// lock the piece and learn from the outcome
func (a *Agent) step(state tetris.Snapshot) (tetris.Snapshot, Step) {
	choice := a.policy.ChooseActionSequence(state)

	pieces := a.environment.Stats().Pieces
	for _, action := range choice.Plan.First {
		if action == tetris.Continue {
			break
		}
		a.environment.Execute(action)
	}
	if a.environment.Stats().Pieces == pieces {
		a.environment.Execute(tetris.AdvanceToNextPiece)
	}

	next := a.environment.Capture()
	reward := a.policy.NotifyOutcome(state, choice.Plan.First, next)

	log.Debug().
		Str("plan", choice.Plan.String()).
		Float64("q", choice.Q).
		Float64("reward", reward).
		Bool("game_over", next.GameOver).
		Msg("decision")

	return next, Step{
		State:     state,
		Plan:      choice.Plan,
		Q:         choice.Q,
		NextState: next,
		Reward:    reward,
	}
}
