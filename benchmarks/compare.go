package benchmarks

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zeu5/tetris-rl/server"
	"github.com/zeu5/tetris-rl/tetris"
	"github.com/zeu5/tetris-rl/types"
)

var (
	alphas       []float64
	topKs        []int
	recordTraces bool
	lastTraces   int
)

// Compare runs one experiment for every combination of learning rate and
// search width, all playing the same piece sequence
func Compare(ctx context.Context, base types.TrainerConfig) error {
	c := types.NewComparison(&types.ComparisonConfig{
		Runs:       runs,
		RecordPath: saveFile,
		// record flags
		RecordTraces:   recordTraces,
		RecordEpisodes: true,
		RecordPolicy:   true,

		PrintLastTraces: lastTraces,
	})
	c.AddAnalysis("Score", types.NewScoreAnalyzer(), types.ScoreComparator(path.Join(saveFile, "plots")))
	c.AddAnalysis("Weights", types.NewWeightsAnalyzer(), types.WeightsComparator(path.Join(saveFile, "plots")))

	if statusPort != 0 {
		status := server.NewStatusServer(ctx, statusPort)
		status.Start()
		c.AddObserver(status)
	}

	for _, a := range alphas {
		for _, k := range topKs {
			config := base
			config.Alpha = a
			config.TopK = k
			if err := config.Validate(); err != nil {
				return err
			}
			name := "alpha" + strconv.FormatFloat(a, 'g', -1, 64) + "_k" + strconv.Itoa(k)
			game := tetris.NewGame(config.Rows, config.Cols, config.Seed)
			c.AddExperiment(types.NewExperiment(name, types.NewGameTrainer(config, game)))
		}
	}
	if len(c.Experiments) == 0 {
		return fmt.Errorf("nothing to compare, give at least one alpha and one top-k")
	}

	return c.Run(ctx)
}

// Example invocation - ./tetris-rl compare --alphas 0.005,0.01 --topks 1,10
func CompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the learning curves of several configurations",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := baseConfig()
			config.Epsilon = epsilon
			config.Discount = discount

			stop := startProfiling()
			defer stop()

			ctx, cancel := interruptContext()
			defer cancel()
			return Compare(ctx, config)
		},
	}
	defaults := types.DefaultTrainerConfig()
	cmd.PersistentFlags().Float64SliceVar(&alphas, "alphas", []float64{defaults.Alpha}, "Initial learning rates to compare")
	cmd.PersistentFlags().IntSliceVar(&topKs, "topks", []int{defaults.TopK}, "Search widths to compare")
	cmd.PersistentFlags().Float64Var(&epsilon, "epsilon", defaults.Epsilon, "Initial exploration rate")
	cmd.PersistentFlags().Float64Var(&discount, "discount", defaults.Discount, "Discount factor")
	cmd.PersistentFlags().IntVar(&statusPort, "port", 0, "Serve the comparison status on this port, 0 to disable")
	cmd.PersistentFlags().BoolVar(&recordTraces, "traces", false, "Record the traces of every episode")
	cmd.PersistentFlags().IntVar(&lastTraces, "last-traces", 0, "Print the traces of the last N episodes of every experiment")
	return cmd
}
