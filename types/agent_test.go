package types

import (
	"context"
	"testing"

	"github.com/zeu5/tetris-rl/policies"
	"github.com/zeu5/tetris-rl/tetris"
)

func smallConfig() TrainerConfig {
	config := DefaultTrainerConfig()
	config.Rows = 8
	config.Cols = 6
	config.TrainEpisodes = 2
	config.EvalEpisodes = 1
	config.Horizon = 200
	return config
}

func TestAgentLocksOnePiecePerDecision(t *testing.T) {
	config := smallConfig()
	trainer := NewGameTrainer(config, tetris.NewGame(config.Rows, config.Cols, 5))

	for trainer.Phase() != Terminated {
		eCtx := trainer.RunEpisode(context.Background())
		if eCtx.Err != nil {
			t.Fatalf("episode %d failed: %s", eCtx.Episode, eCtx.Err)
		}
		if eCtx.Trace.Len() != eCtx.Timesteps {
			t.Fatalf("trace has %d steps for %d timesteps", eCtx.Trace.Len(), eCtx.Timesteps)
		}
		if eCtx.Stats.Pieces != eCtx.Timesteps {
			t.Errorf("locked %d pieces in %d decisions", eCtx.Stats.Pieces, eCtx.Timesteps)
		}
		if !eCtx.GameOver && !eCtx.HorizonEnd {
			t.Errorf("episode ended without a reason")
		}
		for i, step := range eCtx.Trace.Steps {
			want := -float64(policies.PileHeight(step.NextState.Board) - policies.PileHeight(step.State.Board))
			if step.Reward != want {
				t.Fatalf("step %d: reward %f, want %f", i, step.Reward, want)
			}
			if step.State.GameOver {
				t.Fatalf("step %d: decided on a finished game", i)
			}
		}
	}
}

func TestAgentHorizon(t *testing.T) {
	config := DefaultTrainerConfig()
	config.Horizon = 3
	trainer := NewGameTrainer(config, tetris.NewGame(config.Rows, config.Cols, 1))

	eCtx := trainer.RunEpisode(context.Background())
	if !eCtx.HorizonEnd || eCtx.GameOver {
		t.Fatalf("expected a horizon end, got %s", eCtx.Ending())
	}
	if eCtx.Timesteps != 3 {
		t.Errorf("expected 3 decisions, got %d", eCtx.Timesteps)
	}
}

func TestEvaluationDoesNotLearn(t *testing.T) {
	config := smallConfig()
	config.TrainEpisodes = 0
	config.EvalEpisodes = 2
	trainer := NewGameTrainer(config, tetris.NewGame(config.Rows, config.Cols, 9))
	weights := trainer.Policy().Weights()
	weights.Set(policies.FeaturePileHeight, -1)
	weights.Set(policies.FeatureHoles, -2)

	if err := trainer.Run(context.Background(), "eval"); err != nil {
		t.Fatal(err)
	}
	after := trainer.Policy().Weights()
	if after.Get(policies.FeaturePileHeight) != -1 || after.Get(policies.FeatureHoles) != -2 || after.Get(policies.FeatureContours) != 0 {
		t.Errorf("weights changed during evaluation: %s", after)
	}
}

func TestTraceSlice(t *testing.T) {
	trace := NewTrace()
	for i := 0; i < 4; i++ {
		trace.Append(Step{Reward: float64(-i)})
	}
	if trace.TotalReward() != -6 {
		t.Errorf("total reward %f, want -6", trace.TotalReward())
	}
	sliced := trace.Slice(1, 10)
	if sliced.Len() != 3 {
		t.Fatalf("expected 3 steps, got %d", sliced.Len())
	}
	if last, ok := sliced.Last(); !ok || last.Reward != -3 {
		t.Errorf("unexpected last step %v", last)
	}
	if _, ok := trace.Get(4); ok {
		t.Errorf("step out of range was found")
	}
}
