package types

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/tetris-rl/policies"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// EpisodeScore is the outcome of a single episode
type EpisodeScore struct {
	Episode int
	Phase   Phase
	Score   int
	Lines   int
	Pieces  int
}

// ScoreDataSet holds the scores of all the episodes of an experiment run
type ScoreDataSet struct {
	Episodes []EpisodeScore
}

// Summary is the mean and standard deviation of score and lines over
// the episodes of the given phase
type Summary struct {
	Episodes    int
	MeanScore   float64
	StdDevScore float64
	MeanLines   float64
	StdDevLines float64
}

func (s *ScoreDataSet) Summary(phase Phase) Summary {
	scores := make([]float64, 0)
	lines := make([]float64, 0)
	for _, e := range s.Episodes {
		if e.Phase != phase {
			continue
		}
		scores = append(scores, float64(e.Score))
		lines = append(lines, float64(e.Lines))
	}
	if len(scores) == 0 {
		return Summary{}
	}
	out := Summary{Episodes: len(scores)}
	out.MeanScore, out.StdDevScore = stat.MeanStdDev(scores, nil)
	out.MeanLines, out.StdDevLines = stat.MeanStdDev(lines, nil)
	return out
}

type ScoreAnalyzer struct {
	dataSet *ScoreDataSet
}

var _ Analyzer = &ScoreAnalyzer{}

func NewScoreAnalyzer() *ScoreAnalyzer {
	return &ScoreAnalyzer{
		dataSet: &ScoreDataSet{Episodes: make([]EpisodeScore, 0)},
	}
}

func (a *ScoreAnalyzer) Analyze(_ int, _ string, eCtx *EpisodeContext) {
	a.dataSet.Episodes = append(a.dataSet.Episodes, EpisodeScore{
		Episode: eCtx.Episode,
		Phase:   eCtx.Phase,
		Score:   eCtx.Stats.Score,
		Lines:   eCtx.Stats.Lines,
		Pieces:  eCtx.Stats.Pieces,
	})
}

func (a *ScoreAnalyzer) DataSet() DataSet {
	return a.dataSet
}

func (a *ScoreAnalyzer) Reset() {
	a.dataSet = &ScoreDataSet{Episodes: make([]EpisodeScore, 0)}
}

// ScoreComparator plots the score of every episode for all the experiments
// and prints the evaluation summary of each
func ScoreComparator(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = "Score"
		for i := 0; i < len(names); i++ {
			dataSet := ds[i].(*ScoreDataSet)
			points := make(plotter.XYs, len(dataSet.Episodes))
			for j, e := range dataSet.Episodes {
				points[j] = plotter.XY{
					X: float64(e.Episode),
					Y: float64(e.Score),
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)

			summary := dataSet.Summary(Evaluation)
			fmt.Printf("Evaluation of %s over %d episodes: score %.1f (+/- %.1f), lines %.1f (+/- %.1f)\n",
				names[i], summary.Episodes, summary.MeanScore, summary.StdDevScore, summary.MeanLines, summary.StdDevLines)
		}
		p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_score.png"))
	}
}

// WeightsDataSet holds the weights after every episode
type WeightsDataSet struct {
	Weights []map[string]float64
}

type WeightsAnalyzer struct {
	dataSet *WeightsDataSet
}

var _ Analyzer = &WeightsAnalyzer{}

func NewWeightsAnalyzer() *WeightsAnalyzer {
	return &WeightsAnalyzer{
		dataSet: &WeightsDataSet{Weights: make([]map[string]float64, 0)},
	}
}

func (a *WeightsAnalyzer) Analyze(_ int, _ string, eCtx *EpisodeContext) {
	w := make(map[string]float64, len(eCtx.Weights))
	for k, v := range eCtx.Weights {
		w[k] = v
	}
	a.dataSet.Weights = append(a.dataSet.Weights, w)
}

func (a *WeightsAnalyzer) DataSet() DataSet {
	return a.dataSet
}

func (a *WeightsAnalyzer) Reset() {
	a.dataSet = &WeightsDataSet{Weights: make([]map[string]float64, 0)}
}

// WeightsComparator plots, for each experiment, how every feature weight
// evolves over the episodes
func WeightsComparator(plotPath string) Comparator {
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		for i := 0; i < len(names); i++ {
			dataSet := ds[i].(*WeightsDataSet)
			p := plot.New()
			p.Title.Text = names[i]
			p.X.Label.Text = "Episode"
			p.Y.Label.Text = "Weight"
			for j, f := range policies.AllFeatures {
				points := make(plotter.XYs, len(dataSet.Weights))
				for e, w := range dataSet.Weights {
					points[e] = plotter.XY{
						X: float64(e),
						Y: w[string(f)],
					}
				}
				line, err := plotter.NewLine(points)
				if err != nil {
					continue
				}
				line.Color = plotutil.Color(j)
				p.Add(line)
				p.Legend.Add(string(f), line)
			}
			p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_"+names[i]+"_weights.png"))
		}
	}
}
