package benchmarks

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zeu5/tetris-rl/policies"
	"github.com/zeu5/tetris-rl/server"
	"github.com/zeu5/tetris-rl/tetris"
	"github.com/zeu5/tetris-rl/types"
)

var (
	alpha      float64
	epsilon    float64
	discount   float64
	topK       int
	statusPort int
)

func addLearningFlags(cmd *cobra.Command) {
	defaults := types.DefaultTrainerConfig()
	cmd.PersistentFlags().Float64VarP(&alpha, "alpha", "a", defaults.Alpha, "Initial learning rate")
	cmd.PersistentFlags().Float64Var(&epsilon, "epsilon", defaults.Epsilon, "Initial exploration rate")
	cmd.PersistentFlags().Float64Var(&discount, "discount", defaults.Discount, "Discount factor")
	cmd.PersistentFlags().IntVarP(&topK, "topk", "k", defaults.TopK, "Candidates expanded by the lookahead search")
	cmd.PersistentFlags().IntVar(&statusPort, "port", 0, "Serve the training status on this port, 0 to disable")
}

// Train runs a single trainer starting from the stored weights and
// stores the learned weights back
func Train(ctx context.Context, config types.TrainerConfig, store policies.WeightStore) error {
	if err := config.Validate(); err != nil {
		return err
	}
	weights, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading weights: %w", err)
	}

	policy := policies.NewTDPolicy(config.Alpha, config.Discount, config.Epsilon, config.TopK, config.Seed)
	policy.SetWeights(weights)
	trainer := types.NewTrainer(config, policy, tetris.NewGame(config.Rows, config.Cols, config.Seed))

	recorder := types.NewEpisodeRecorder("td", 0)
	scores := types.NewScoreAnalyzer()
	observers := []types.EpisodeObserver{recorder, types.AnalyzerObserver(0, scores)}
	if statusPort != 0 {
		status := server.NewStatusServer(ctx, statusPort)
		status.Start()
		observers = append(observers, status)
	}

	log.Info().Int("train", config.TrainEpisodes).Int("eval", config.EvalEpisodes).Float64("alpha", config.Alpha).Msg("starting training")
	runErr := trainer.Run(ctx, "td", observers...)

	if err := recorder.Write(path.Join(saveFile, "episodes.parquet")); err != nil {
		log.Error().Err(err).Msg("error recording episodes")
	}
	if err := store.Save(context.Background(), policy.Weights()); err != nil {
		return fmt.Errorf("error saving weights: %w", err)
	}

	summary := scores.DataSet().(*types.ScoreDataSet).Summary(types.Evaluation)
	fmt.Printf("Evaluation over %d episodes: score %.1f (+/- %.1f), lines %.1f (+/- %.1f)\n",
		summary.Episodes, summary.MeanScore, summary.StdDevScore, summary.MeanLines, summary.StdDevLines)
	fmt.Printf("Weights:\n%s", policy.Weights())
	return runErr
}

// Example invocation - ./tetris-rl train --train 20 --eval 5 --store redis
func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the weights and evaluate them",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := baseConfig()
			config.Alpha = alpha
			config.Epsilon = epsilon
			config.Discount = discount
			config.TopK = topK

			store, closeStore, err := getStore(storeKind)
			if err != nil {
				return err
			}
			defer closeStore()

			stop := startProfiling()
			defer stop()

			ctx, cancel := interruptContext()
			defer cancel()
			return Train(ctx, config, store)
		},
	}
	addLearningFlags(cmd)
	addStoreFlags(cmd)
	return cmd
}

// interruptContext is cancelled on an interrupt from the os
func interruptContext() (context.Context, context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
			log.Warn().Msg("interrupted, stopping")
		case <-doneCh:
		}
		cancel()
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		close(doneCh)
	}
}
