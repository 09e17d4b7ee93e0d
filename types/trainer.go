package types

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zeu5/tetris-rl/policies"
)

// Phase of the trainer
type Phase int

const (
	Training Phase = iota
	Evaluation
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Training:
		return "TRAINING"
	case Evaluation:
		return "EVALUATION"
	case Terminated:
		return "TERMINATED"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{Training, Evaluation, Terminated} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", string(text))
}

// TrainerConfig configures the learning schedule and the board
type TrainerConfig struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	TrainEpisodes int `json:"train_episodes"`
	EvalEpisodes  int `json:"eval_episodes"`
	// Horizon bounds the decisions of an episode, 0 for none
	Horizon int `json:"horizon"`

	Alpha    float64 `json:"alpha"`
	Epsilon  float64 `json:"epsilon"`
	Discount float64 `json:"discount"`
	TopK     int     `json:"top_k"`

	Seed uint64 `json:"seed"`
}

func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		Rows:          22,
		Cols:          10,
		TrainEpisodes: 20,
		EvalEpisodes:  5,
		Horizon:       0,
		Alpha:         0.005,
		Epsilon:       0,
		Discount:      policies.DefaultDiscount,
		TopK:          policies.DefaultTopK,
		Seed:          1,
	}
}

func (c TrainerConfig) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("invalid board size %dx%d", c.Rows, c.Cols)
	}
	if c.TrainEpisodes < 0 || c.EvalEpisodes < 0 {
		return fmt.Errorf("episode counts must not be negative")
	}
	if c.TopK < 1 {
		return fmt.Errorf("top-k must be at least 1, got %d", c.TopK)
	}
	if c.Alpha < 0 || c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("invalid alpha %f or epsilon %f", c.Alpha, c.Epsilon)
	}
	return nil
}

// Trainer drives episodes through the training and evaluation phases,
// annealing the learning rate and exploration after every episode
type Trainer struct {
	config TrainerConfig
	agent  *Agent
	policy Policy

	phase   Phase
	episode int
	alpha   float64
	epsilon float64
}

func NewTrainer(config TrainerConfig, policy Policy, environment Environment) *Trainer {
	t := &Trainer{
		config: config,
		policy: policy,
		agent: NewAgent(&AgentConfig{
			Horizon:     config.Horizon,
			Policy:      policy,
			Environment: environment,
		}),
	}
	t.Reset()
	return t
}

// NewGameTrainer builds a trainer over a fresh game and TD policy
func NewGameTrainer(config TrainerConfig, game Environment) *Trainer {
	policy := policies.NewTDPolicy(config.Alpha, config.Discount, config.Epsilon, config.TopK, config.Seed)
	return NewTrainer(config, policy, game)
}

// Reset restarts the schedule from the first episode. The policy is not reset.
func (t *Trainer) Reset() {
	t.episode = 0
	t.alpha = t.config.Alpha
	t.epsilon = t.config.Epsilon
	t.phase = Training
	t.updatePhase()
	t.policy.SetAlpha(t.alpha)
	t.policy.SetEpsilon(t.epsilon)
}

func (t *Trainer) Phase() Phase {
	return t.phase
}

func (t *Trainer) Episode() int {
	return t.episode
}

func (t *Trainer) Alpha() float64 {
	return t.alpha
}

func (t *Trainer) Epsilon() float64 {
	return t.epsilon
}

func (t *Trainer) Policy() Policy {
	return t.policy
}

func (t *Trainer) Config() TrainerConfig {
	return t.config
}

// RunEpisode plays one episode with the current schedule values and then
// advances the schedule. Panics in the episode are recorded in the context.
func (t *Trainer) RunEpisode(ctx context.Context) *EpisodeContext {
	eCtx := NewEpisodeContext(ctx, t.episode, t.phase, t.alpha, t.epsilon)
	defer eCtx.Cancel()

	start := time.Now()
	t.runEpisode(eCtx)
	eCtx.RunDuration = time.Since(start)

	for f, v := range t.policy.Weights().Values() {
		eCtx.Weights[string(f)] = v
	}

	if !eCtx.Interrupted {
		t.EndEpisode()
	}
	return eCtx
}

func (t *Trainer) runEpisode(eCtx *EpisodeContext) {
	defer func() {
		if r := recover(); r != nil {
			eCtx.SetError(fmt.Errorf("%v", r))
		}
	}()
	t.agent.RunEpisode(eCtx)
}

// Run plays episodes until the trainer terminates or ctx is done.
// Every finished episode is passed to the observers.
func (t *Trainer) Run(ctx context.Context, name string, observers ...EpisodeObserver) error {
	for t.phase != Terminated {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		eCtx := t.RunEpisode(ctx)
		if eCtx.Interrupted {
			return ctx.Err()
		}
		log.Info().
			Str("experiment", name).
			Int("episode", eCtx.Episode).
			Str("phase", eCtx.Phase.String()).
			Int("score", eCtx.Stats.Score).
			Int("lines", eCtx.Stats.Lines).
			Int("pieces", eCtx.Stats.Pieces).
			Str("ending", eCtx.Ending()).
			Msg("episode finished")
		for _, o := range observers {
			o.ObserveEpisode(name, eCtx)
		}
	}
	return nil
}

// EndEpisode advances the schedule by one episode
func (t *Trainer) EndEpisode() {
	if t.phase == Terminated {
		return
	}
	t.episode += 1
	if train := t.config.TrainEpisodes; train > 0 {
		t.epsilon = max(0, t.config.Epsilon*(1-float64(t.episode)/float64(train)))
		t.alpha = max(0, t.alpha-t.config.Alpha/float64(train))
	}
	t.updatePhase()
	t.policy.SetAlpha(t.alpha)
	t.policy.SetEpsilon(t.epsilon)
}

func (t *Trainer) updatePhase() {
	train := t.config.TrainEpisodes
	switch {
	case t.episode >= train+t.config.EvalEpisodes:
		t.phase = Terminated
		t.alpha = 0
		t.epsilon = 0
	case t.episode >= train:
		t.phase = Evaluation
		t.alpha = 0
		t.epsilon = 0
	default:
		t.phase = Training
	}
}
