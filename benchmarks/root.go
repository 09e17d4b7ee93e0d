package benchmarks

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/tetris-rl/explorer"
	"github.com/zeu5/tetris-rl/types"
)

var (
	trainEpisodes int
	evalEpisodes  int
	horizon       int
	saveFile      string
	runs          int
	rows          int
	cols          int
	seed          uint64

	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	defaults := types.DefaultTrainerConfig()
	rootCommand := &cobra.Command{
		Use:          "tetris-rl",
		Short:        "Feature based TD(0) learner for tetris",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().IntVar(&trainEpisodes, "train", defaults.TrainEpisodes, "Number of training episodes")
	rootCommand.PersistentFlags().IntVar(&evalEpisodes, "eval", defaults.EvalEpisodes, "Number of evaluation episodes")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", defaults.Horizon, "Maximum decisions of each episode, 0 for none")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 1, "Number of experiment runs")
	rootCommand.PersistentFlags().IntVar(&rows, "rows", defaults.Rows, "Playable rows of the board")
	rootCommand.PersistentFlags().IntVar(&cols, "cols", defaults.Cols, "Columns of the board")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", defaults.Seed, "Seed of the piece generator and exploration")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(WeightsCommand())
	rootCommand.AddCommand(explorer.ExploreCommand())
	return rootCommand
}

// baseConfig is the trainer configuration given by the persistent flags
func baseConfig() types.TrainerConfig {
	config := types.DefaultTrainerConfig()
	config.Rows = rows
	config.Cols = cols
	config.TrainEpisodes = trainEpisodes
	config.EvalEpisodes = evalEpisodes
	config.Horizon = horizon
	config.Seed = seed
	return config
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
