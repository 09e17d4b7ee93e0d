package explorer

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeu5/tetris-rl/policies"
	"github.com/zeu5/tetris-rl/types"
)

type Explorer struct {
	WeightsFile string
	TracesFile  string

	Weights *policies.Weights
	Traces  []*types.Trace

	search *policies.Search
}

// Create an explorer of the recorded traces under a weight vector
func NewExplorer(weightsFile string, tracesFile string) (*Explorer, error) {
	weights, err := policies.NewFileStore(weightsFile).Load(context.Background())
	if err != nil {
		return nil, err
	}
	traces, err := readTraces(tracesFile)
	if err != nil {
		return nil, err
	}
	e := newExplorer(weights, traces)
	e.WeightsFile = weightsFile
	e.TracesFile = tracesFile
	return e, nil
}

func newExplorer(weights *policies.Weights, traces []*types.Trace) *Explorer {
	return &Explorer{
		Weights: weights,
		Traces:  traces,
		search:  policies.NewSearch(weights, policies.DefaultTopK),
	}
}

// Example invocation - ./tetris-rl explore results/policies/td_0.json results/traces/td_0.jsonl
func ExploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:  "explore [weights_file] [traces_file]",
		Long: "Replay recorded traces with the features and values under a weight vector",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := NewExplorer(args[0], args[1])
			if err != nil {
				return err
			}
			exp.Interact(os.Stdin, os.Stdout)
			return nil
		},
	}
}
