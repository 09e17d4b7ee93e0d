package policies

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// WeightStore persists a weight vector between training runs
type WeightStore interface {
	Load(context.Context) (*Weights, error)
	Save(context.Context, *Weights) error
}

// FileStore keeps the weights in a JSON file
type FileStore struct {
	Path string
}

var _ WeightStore = &FileStore{}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns zero weights if the file does not exist yet
func (f *FileStore) Load(_ context.Context) (*Weights, error) {
	w := NewWeights()
	if _, err := os.Stat(f.Path); os.IsNotExist(err) {
		return w, nil
	}
	if err := w.Read(f.Path); err != nil {
		return nil, err
	}
	return w, nil
}

func (f *FileStore) Save(_ context.Context, w *Weights) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("error creating weights dir: %w", err)
	}
	return w.Record(f.Path)
}

// RedisStore keeps the weights in a redis hash, one field per feature
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ WeightStore = &RedisStore{}

func NewRedisStore(addr, key string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		key: key,
	}
}

func (r *RedisStore) Load(ctx context.Context) (*Weights, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading weights from redis: %w", err)
	}
	values := make(map[string]float64, len(fields))
	for name, raw := range fields {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %s=%q: %w", name, raw, err)
		}
		values[name] = val
	}
	w := NewWeights()
	w.Load(values)
	return w, nil
}

func (r *RedisStore) Save(ctx context.Context, w *Weights) error {
	fields := make(map[string]interface{}, len(AllFeatures))
	for f, val := range w.Values() {
		fields[string(f)] = strconv.FormatFloat(val, 'g', -1, 64)
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, fields)
		return nil
	})
	if err != nil {
		return fmt.Errorf("error writing weights to redis: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
