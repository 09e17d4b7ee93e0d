package types

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path"
	"testing"

	"github.com/zeu5/tetris-rl/tetris"
)

type countingObserver struct {
	episodes map[string]int
}

func (c *countingObserver) ObserveEpisode(name string, _ *EpisodeContext) {
	c.episodes[name] += 1
}

func TestComparisonRecords(t *testing.T) {
	dir := path.Join(t.TempDir(), "results")
	c := NewComparison(&ComparisonConfig{
		Runs:           1,
		RecordPath:     dir,
		RecordTraces:   true,
		RecordEpisodes: true,
		RecordPolicy:   true,

		PrintLastTraces: 1,
	})

	var compared []DataSet
	c.AddAnalysis("score", NewScoreAnalyzer(), func(run int, names []string, ds []DataSet) {
		compared = ds
	})
	observer := &countingObserver{episodes: make(map[string]int)}
	c.AddObserver(observer)

	config := smallConfig()
	c.AddExperiment(NewExperiment("small", NewGameTrainer(config, tetris.NewGame(config.Rows, config.Cols, 2))))

	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(compared) != 1 {
		t.Fatalf("expected one dataset, got %d", len(compared))
	}
	scores := compared[0].(*ScoreDataSet)
	if len(scores.Episodes) != 3 {
		t.Errorf("expected 3 analyzed episodes, got %d", len(scores.Episodes))
	}
	if observer.episodes["small"] != 3 {
		t.Errorf("observer saw %d episodes", observer.episodes["small"])
	}

	bs, err := os.ReadFile(path.Join(dir, "comparison_config.json"))
	if err != nil {
		t.Fatal(err)
	}
	recorded := make(map[string]interface{})
	if err := json.Unmarshal(bs, &recorded); err != nil {
		t.Fatal(err)
	}
	if _, ok := recorded["experiments"].(map[string]interface{})["small"]; !ok {
		t.Errorf("experiment config was not recorded")
	}

	f, err := os.Open(path.Join(dir, "traces", "small_0.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		trace := NewTrace()
		if err := json.Unmarshal(scanner.Bytes(), trace); err != nil {
			t.Fatalf("trace %d: %s", lines, err)
		}
		lines += 1
	}
	if lines != 3 {
		t.Errorf("expected 3 traces, got %d", lines)
	}

	rows, err := ReadEpisodes(path.Join(dir, "episodes", "small_0.parquet"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 episode rows, got %d", len(rows))
	}
	if rows[2].Phase != Evaluation.String() || rows[2].Alpha != 0 {
		t.Errorf("last row should be the evaluation episode: %+v", rows[2])
	}

	if _, err := os.Stat(path.Join(dir, "lastTraces", "small_run0_ep2.txt")); err != nil {
		t.Errorf("last trace was not printed: %s", err)
	}
	if _, err := os.Stat(path.Join(dir, "lastTraces", "small_run0_ep1.txt")); err == nil {
		t.Errorf("only the last trace should be printed")
	}

	if _, err := os.Stat(path.Join(dir, "policies", "small_0.json")); err != nil {
		t.Errorf("policy was not recorded: %s", err)
	}
}

func TestEpisodeRecorderRoundTrip(t *testing.T) {
	recorder := NewEpisodeRecorder("exp", 1)
	for i := 0; i < 3; i++ {
		eCtx := NewEpisodeContext(context.Background(), i, Training, 0.005, 0)
		eCtx.Stats = tetris.GameStats{Score: 40 * i, Lines: i, Level: 1, Pieces: 10 + i}
		eCtx.Timesteps = 10 + i
		eCtx.GameOver = true
		eCtx.Weights["HOLES"] = -float64(i)
		recorder.Add(eCtx)
	}

	file := path.Join(t.TempDir(), "episodes.parquet")
	if err := recorder.Write(file); err != nil {
		t.Fatal(err)
	}
	rows, err := ReadEpisodes(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row != recorder.Rows()[i] {
			t.Errorf("row %d: read %+v, wrote %+v", i, row, recorder.Rows()[i])
		}
	}
	if rows[2].HolesWeight != -2 || rows[2].Ending != "game_over" {
		t.Errorf("unexpected row %+v", rows[2])
	}
}

func TestScoreSummary(t *testing.T) {
	ds := &ScoreDataSet{Episodes: []EpisodeScore{
		{Phase: Training, Score: 1000},
		{Phase: Evaluation, Score: 40, Lines: 1},
		{Phase: Evaluation, Score: 120, Lines: 3},
	}}
	summary := ds.Summary(Evaluation)
	if summary.Episodes != 2 || summary.MeanScore != 80 || summary.MeanLines != 2 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if empty := ds.Summary(Terminated); empty.Episodes != 0 {
		t.Errorf("expected an empty summary")
	}
}

type cancellingObserver struct {
	cancel context.CancelFunc
}

func (c *cancellingObserver) ObserveEpisode(string, *EpisodeContext) {
	c.cancel()
}

func TestInterruptedComparisonRecordsFinishedEpisodes(t *testing.T) {
	dir := path.Join(t.TempDir(), "results")
	c := NewComparison(&ComparisonConfig{
		Runs:           1,
		RecordPath:     dir,
		RecordEpisodes: true,
		RecordPolicy:   true,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.AddObserver(&cancellingObserver{cancel: cancel})

	config := smallConfig()
	c.AddExperiment(NewExperiment("interrupted", NewGameTrainer(config, tetris.NewGame(config.Rows, config.Cols, 2))))

	if err := c.Run(ctx); err != context.Canceled {
		t.Fatalf("expected the run to be cancelled, got %v", err)
	}

	rows, err := ReadEpisodes(path.Join(dir, "episodes", "interrupted_0.parquet"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Episode != 0 {
		t.Errorf("expected only the first episode to be recorded, got %+v", rows)
	}
	if _, err := os.Stat(path.Join(dir, "policies", "interrupted_0.json")); err != nil {
		t.Errorf("policy was not recorded: %s", err)
	}
}
