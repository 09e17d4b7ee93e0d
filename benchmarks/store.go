package benchmarks

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/tetris-rl/policies"
)

var (
	storeKind   string
	weightsFile string
	redisAddr   string
	redisKey    string
)

func addStoreFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&storeKind, "store", "file", "Where the weights are kept: file or redis")
	cmd.PersistentFlags().StringVarP(&weightsFile, "weights", "w", "", "Weights file, defaults to <save>/weights.json")
	cmd.PersistentFlags().StringVar(&redisAddr, "redis", getEnv("REDIS_ADDR", "127.0.0.1:6379"), "Address of the redis server")
	cmd.PersistentFlags().StringVar(&redisKey, "redis-key", "tetris-rl:weights", "Redis hash holding the weights")
}

func getWeightsFile() string {
	if weightsFile != "" {
		return weightsFile
	}
	return path.Join(saveFile, "weights.json")
}

// getStore returns the configured weight store and a function to release it
func getStore(kind string) (policies.WeightStore, func() error, error) {
	switch kind {
	case "file":
		return policies.NewFileStore(getWeightsFile()), func() error { return nil }, nil
	case "redis":
		store := policies.NewRedisStore(redisAddr, redisKey)
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown weight store %q", kind)
	}
}
