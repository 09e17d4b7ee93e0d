package policies

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/zeu5/tetris-rl/tetris"
)

// DefaultTopK is how many one-piece candidates are expanded with the next piece
const DefaultTopK = 10

// Candidate is a plan and its estimated Q value
type Candidate struct {
	Q    float64
	Plan tetris.Plan
}

// Search ranks plans with the linear Q estimator.
// It must not be called on a terminal state.
type Search struct {
	weights *Weights
	topK    int
}

func NewSearch(weights *Weights, topK int) *Search {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Search{
		weights: weights,
		topK:    topK,
	}
}

// QPlan estimates the value of playing plan from state
func (s *Search) QPlan(state tetris.Snapshot, plan tetris.Plan) float64 {
	return s.weights.Q(Extract(state, SimulatePlan(state, plan)))
}

// Best picks the best plan for state among the one-piece candidates.
// The top K candidates are expanded with every sequence of the next piece
// and the best combined plan is returned. An empty candidate list falls back
// to [CONTINUE].
// With debug logging enabled, searching a finished game panics.
func (s *Search) Best(state tetris.Snapshot, candidates []tetris.Sequence) Candidate {
	if state.GameOver && zerolog.GlobalLevel() <= zerolog.DebugLevel {
		panic("search on a terminal state")
	}
	if len(candidates) == 0 {
		candidates = []tetris.Sequence{{tetris.Continue}}
	}
	plans := make([]tetris.Plan, len(candidates))
	for i, seq := range candidates {
		plans[i] = tetris.Plan{First: seq}
	}
	top := s.rank(state, plans, s.topK)

	lookahead := make([]tetris.Plan, 0)
	for _, c := range top {
		successor := Simulate(state, c.Plan.First)
		for _, second := range LegalSequences(successor) {
			lookahead = append(lookahead, tetris.Plan{First: c.Plan.First, Second: second})
		}
	}
	return s.rank(state, lookahead, 1)[0]
}

// rank scores every plan and keeps the best n, ties kept in input order
func (s *Search) rank(state tetris.Snapshot, plans []tetris.Plan, n int) []Candidate {
	scored := make([]Candidate, len(plans))
	for i, p := range plans {
		scored[i] = Candidate{Q: s.QPlan(state, p), Plan: p}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Q > scored[j].Q
	})
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
