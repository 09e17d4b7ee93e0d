package benchmarks

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zeu5/tetris-rl/policies"
)

// CopyWeights loads the weights from one store and saves them to the other
func CopyWeights(ctx context.Context, from, to policies.WeightStore) (*policies.Weights, error) {
	w, err := from.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := to.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func weightsContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func WeightsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Inspect and move the learned weights",
	}
	addStoreFlags(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the weights of the selected store",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := getStore(storeKind)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := weightsContext()
			defer cancel()
			w, err := store.Load(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%s", w)
			return nil
		},
	})

	// Example invocation - ./tetris-rl weights push -w results/weights.json
	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Copy the weights file to redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return copyBetween("file", "redis")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Copy the weights in redis to the weights file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return copyBetween("redis", "file")
		},
	})
	return cmd
}

func copyBetween(fromKind, toKind string) error {
	from, closeFrom, err := getStore(fromKind)
	if err != nil {
		return err
	}
	defer closeFrom()
	to, closeTo, err := getStore(toKind)
	if err != nil {
		return err
	}
	defer closeTo()

	ctx, cancel := weightsContext()
	defer cancel()
	w, err := CopyWeights(ctx, from, to)
	if err != nil {
		return fmt.Errorf("error copying weights from %s to %s: %w", fromKind, toKind, err)
	}
	log.Info().Str("from", fromKind).Str("to", toKind).Msg("weights copied")
	fmt.Printf("%s", w)
	return nil
}
