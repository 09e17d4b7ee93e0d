package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/zeu5/tetris-rl/util"
)

type experimentRunConfig struct {
	// execution configuration
	CurrentRun int
	Analyzers  []Analyzer
	Observers  []EpisodeObserver
	Context    context.Context

	// thresholds to abort the experiment
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces   bool
	RecordEpisodes bool
	RecordPolicy   bool

	// readable traces of the last N episodes
	PrintLastTraces int

	ReportSavePath string

	//misc
	LongestExpNameLen int
}

// EpisodeObserver is notified after every episode of an experiment
type EpisodeObserver interface {
	ObserveEpisode(string, *EpisodeContext)
}

// ObserverFunc adapts a function to an EpisodeObserver
type ObserverFunc func(string, *EpisodeContext)

func (f ObserverFunc) ObserveEpisode(name string, eCtx *EpisodeContext) {
	f(name, eCtx)
}

// AnalyzerObserver feeds the episodes of a single trainer run to an analyzer
func AnalyzerObserver(run int, a Analyzer) EpisodeObserver {
	return ObserverFunc(func(name string, eCtx *EpisodeContext) {
		a.Analyze(run, name, eCtx)
	})
}

// Experiment is a named trainer whose episodes are analyzed and recorded
type Experiment struct {
	Name    string
	trainer *Trainer
}

// NewExperiment creates a new experiment instance
func NewExperiment(name string, trainer *Trainer) *Experiment {
	return &Experiment{
		Name:    name,
		trainer: trainer,
	}
}

func (e *Experiment) Trainer() *Trainer {
	return e.trainer
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, trace *Trace) {
	tracesFile := path.Join(rConfig.ReportSavePath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
	bs, err := json.Marshal(trace)
	if err != nil {
		log.Error().Err(err).Str("experiment", e.Name).Msg("error encoding trace")
		return
	}
	if err := util.AppendToFile(tracesFile, string(bs)); err != nil {
		log.Error().Err(err).Str("file", tracesFile).Msg("error recording trace")
	}
}

// Run the experiment until its trainer terminates
func (e *Experiment) Run(rConfig *experimentRunConfig) {
	select {
	case <-rConfig.Context.Done():
		return
	default:
	}

	if rConfig.RecordTraces {
		tracesFolder := path.Join(rConfig.ReportSavePath, "traces")
		if _, err := os.Stat(tracesFolder); err != nil {
			os.MkdirAll(tracesFolder, os.ModePerm)
		}
	}

	config := e.trainer.Config()
	totalEpisodes := config.TrainEpisodes + config.EvalEpisodes
	recorder := NewEpisodeRecorder(e.Name, rConfig.CurrentRun)

	executedEpisodes := 0
	totalWithError := 0
	consecutiveErrors := 0
	totalGameOver := 0
	totalHorizon := 0
	totalTimesteps := 0

	EPPadding := len(strconv.Itoa(totalEpisodes))
	NamePadding := rConfig.LongestExpNameLen

	printProgress := func(phase Phase, score int) {
		fmt.Printf("\rExp:%*s, Eps:%*d/%d [%10s] || Steps:%7d, Score:%7d || GameOver:%*d, Horizon:%*d, Err:%*d",
			NamePadding, e.Name, EPPadding, executedEpisodes, totalEpisodes, phase, totalTimesteps, score,
			EPPadding, totalGameOver, EPPadding, totalHorizon, EPPadding, totalWithError)
	}
	printProgress(e.trainer.Phase(), 0)

	// an interrupted run still records the episodes that finished
	for e.trainer.Phase() != Terminated && rConfig.Context.Err() == nil {
		eCtx := e.trainer.RunEpisode(rConfig.Context)
		if eCtx.Interrupted {
			break
		}
		executedEpisodes += 1
		totalTimesteps += eCtx.Timesteps

		if eCtx.Err != nil {
			totalWithError += 1
			consecutiveErrors += 1
			log.Error().Err(eCtx.Err).Str("experiment", e.Name).Int("episode", eCtx.Episode).Msg("episode failed")
		} else {
			consecutiveErrors = 0
			if eCtx.GameOver {
				totalGameOver += 1
			} else if eCtx.HorizonEnd {
				totalHorizon += 1
			}
		}

		if rConfig.RecordTraces {
			e.recordTrace(rConfig, eCtx.Trace)
		}
		if rConfig.RecordEpisodes {
			recorder.Add(eCtx)
		}
		if executedEpisodes > totalEpisodes-rConfig.PrintLastTraces {
			filePath := path.Join(rConfig.ReportSavePath, "lastTraces", e.Name+"_run"+strconv.Itoa(rConfig.CurrentRun)+"_ep"+strconv.Itoa(eCtx.Episode)+".txt")
			if err := util.WriteToFile(filePath, ReadableTrace(eCtx.Trace)...); err != nil {
				log.Error().Err(err).Str("file", filePath).Msg("error printing trace")
			}
		}

		// analyze the episode, even if it ended with an error
		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, e.Name, eCtx)
		}
		for _, o := range rConfig.Observers {
			o.ObserveEpisode(e.Name, eCtx)
		}

		log.Debug().Str("experiment", e.Name).Msg(eCtx.String())

		if consecutiveErrors >= rConfig.ConsecutiveErrorsAbort {
			fmt.Printf("\n Aborting experiment %s : %d consecutive errors\n", e.Name, consecutiveErrors)
			break
		}

		printProgress(e.trainer.Phase(), eCtx.Stats.Score)
	}

	if rConfig.RecordEpisodes && len(recorder.Rows()) > 0 {
		file := path.Join(rConfig.ReportSavePath, "episodes", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".parquet")
		if err := recorder.Write(file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("error recording episodes")
		}
	}

	if rConfig.RecordPolicy {
		file := path.Join(rConfig.ReportSavePath, "policies", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".json")
		if err := e.trainer.Policy().Record(file); err != nil {
			log.Error().Err(err).Str("file", file).Msg("error recording policy")
		}
	}

	fmt.Println("")
}

// Reset forgets the learned weights and restarts the schedule
func (e *Experiment) Reset() {
	e.trainer.Policy().Reset()
	e.trainer.Reset()
}

// Generic Dataset that contains information after processing the episodes
type DataSet interface{}

// Analyzer compresses the information in the episodes to a DataSet
type Analyzer interface {
	// Run, experiment, finished episode
	Analyze(int, string, *EpisodeContext)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// Comparator differentiates between different datasets with associated names
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet)

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs int // number of runs

	RecordPath string // path to store the results

	// thresholds to abort the experiment
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces   bool
	RecordEpisodes bool
	RecordPolicy   bool

	// number of final episodes of each experiment printed as readable traces
	PrintLastTraces int
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	if _, ok := os.Stat(cfg.RecordPath); ok != nil {
		os.MkdirAll(cfg.RecordPath, 0777)
	}

	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["record_traces"] = cfg.RecordTraces
	out["record_episodes"] = cfg.RecordEpisodes
	out["record_policy"] = cfg.RecordPolicy
	out["print_last_traces"] = cfg.PrintLastTraces

	experiments := make(map[string]TrainerConfig)
	for _, e := range c.Experiments {
		experiments[e.Name] = e.trainer.Config()
	}
	out["experiments"] = experiments

	out["analyzers"] = make([]string, 0)
	for name := range c.analyzers {
		out["analyzers"] = append(out["analyzers"].([]string), name)
	}

	bs, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding comparison config: %w", err)
	}
	return os.WriteFile(path.Join(cfg.RecordPath, "comparison_config.json"), bs, 0644)
}

// Comparison contains the different experiments to compare
// The episodes of the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	observers   []EpisodeObserver
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	if _, ok := os.Stat(config.RecordPath); ok == nil {
		RemoveContents(config.RecordPath)
	}
	os.MkdirAll(config.RecordPath, 0777)

	foldersToCreate := make([]string, 0)
	if config.RecordTraces {
		foldersToCreate = append(foldersToCreate, "traces")
	}
	if config.RecordEpisodes {
		foldersToCreate = append(foldersToCreate, "episodes")
	}
	if config.RecordPolicy {
		foldersToCreate = append(foldersToCreate, "policies")
	}
	if config.PrintLastTraces > 0 {
		foldersToCreate = append(foldersToCreate, "lastTraces")
	}

	for _, s := range foldersToCreate {
		fldPath := path.Join(config.RecordPath, s)
		if _, ok := os.Stat(fldPath); ok != nil {
			os.MkdirAll(fldPath, 0777)
		}
	}

	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		observers:   make([]EpisodeObserver, 0),
		cConfig:     config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// AddObserver registers an observer notified after every episode
func (c *Comparison) AddObserver(o EpisodeObserver) {
	c.observers = append(c.observers, o)
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) error {
	if err := c.recordConfig(); err != nil {
		return err
	}

	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		fmt.Printf("Run %d\n", run+1)
		datasets := make(map[string][]DataSet)

		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			e.Run(c.prepareRunConfig(ctx, run, longestNameLen))
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			e.Reset()
		}
		for name, comp := range c.comparators {
			comp(run, names, datasets[name])
		}
	}
	return ctx.Err()
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run int, longestExpNameLen int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:             run,
		Analyzers:              make([]Analyzer, 0),
		Observers:              c.observers,
		Context:                ctx,
		ConsecutiveErrorsAbort: c.cConfig.ConsecutiveErrorsAbort,
		RecordTraces:           c.cConfig.RecordTraces,
		RecordEpisodes:         c.cConfig.RecordEpisodes,
		RecordPolicy:           c.cConfig.RecordPolicy,
		PrintLastTraces:        c.cConfig.PrintLastTraces,
		ReportSavePath:         c.cConfig.RecordPath,

		LongestExpNameLen: longestExpNameLen,
	}

	if rCfg.ConsecutiveErrorsAbort == 0 {
		rCfg.ConsecutiveErrorsAbort = 10
	}

	for _, a := range c.analyzers {
		rCfg.Analyzers = append(rCfg.Analyzers, a)
	}
	return rCfg
}

// RemoveContents deletes everything in the directory
func RemoveContents(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	names, err := d.Readdirnames(-1)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := os.RemoveAll(path.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
