package types

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"github.com/zeu5/tetris-rl/policies"
)

// EpisodeRow is the summary of one episode as stored in episodes parquet files
type EpisodeRow struct {
	Experiment string  `parquet:"experiment,dict"`
	Run        int32   `parquet:"run"`
	Episode    int32   `parquet:"episode"`
	Phase      string  `parquet:"phase,dict"`
	Alpha      float64 `parquet:"alpha"`
	Epsilon    float64 `parquet:"epsilon"`
	Score      int32   `parquet:"score"`
	Lines      int32   `parquet:"lines"`
	Level      int32   `parquet:"level"`
	Pieces     int32   `parquet:"pieces"`
	Timesteps  int32   `parquet:"timesteps"`
	Reward     float64 `parquet:"reward"`
	Ending     string  `parquet:"ending,dict"`
	DurationMs int64   `parquet:"duration_ms"`

	PileHeightWeight float64 `parquet:"w_pile_height"`
	HolesWeight      float64 `parquet:"w_holes"`
	ContoursWeight   float64 `parquet:"w_contours"`
}

// EpisodeRecorder collects the episode rows of an experiment run
type EpisodeRecorder struct {
	experiment string
	run        int
	rows       []EpisodeRow
}

func NewEpisodeRecorder(experiment string, run int) *EpisodeRecorder {
	return &EpisodeRecorder{
		experiment: experiment,
		run:        run,
		rows:       make([]EpisodeRow, 0),
	}
}

func (r *EpisodeRecorder) Add(eCtx *EpisodeContext) {
	r.rows = append(r.rows, EpisodeRow{
		Experiment: r.experiment,
		Run:        int32(r.run),
		Episode:    int32(eCtx.Episode),
		Phase:      eCtx.Phase.String(),
		Alpha:      eCtx.Alpha,
		Epsilon:    eCtx.Epsilon,
		Score:      int32(eCtx.Stats.Score),
		Lines:      int32(eCtx.Stats.Lines),
		Level:      int32(eCtx.Stats.Level),
		Pieces:     int32(eCtx.Stats.Pieces),
		Timesteps:  int32(eCtx.Timesteps),
		Reward:     eCtx.Trace.TotalReward(),
		Ending:     eCtx.Ending(),
		DurationMs: eCtx.RunDuration.Milliseconds(),

		PileHeightWeight: eCtx.Weights[string(policies.FeaturePileHeight)],
		HolesWeight:      eCtx.Weights[string(policies.FeatureHoles)],
		ContoursWeight:   eCtx.Weights[string(policies.FeatureContours)],
	})
}

// ObserveEpisode records the episodes of a trainer run directly
func (r *EpisodeRecorder) ObserveEpisode(_ string, eCtx *EpisodeContext) {
	r.Add(eCtx)
}

func (r *EpisodeRecorder) Rows() []EpisodeRow {
	return r.rows
}

// Write stores the rows in a zstd compressed parquet file.
// The file is written to a temporary path and renamed.
func (r *EpisodeRecorder) Write(outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, r.rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "tetris_episode_v1"),
	); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadEpisodes loads the rows of a file written by EpisodeRecorder.Write
func ReadEpisodes(path string) ([]EpisodeRow, error) {
	rows, err := parquet.ReadFile[EpisodeRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
