package policies

import (
	"github.com/zeu5/tetris-rl/tetris"
	"golang.org/x/exp/rand"
)

// DefaultDiscount is the TD discount factor
const DefaultDiscount = 0.9

// TDPolicy is a linear Q learner over board features, updated with TD(0)
// and acting through the two-piece lookahead search.
type TDPolicy struct {
	weights  *Weights
	search   *Search
	alpha    float64
	discount float64
	epsilon  float64
	topK     int
	rand     *rand.Rand
}

// NewTDPolicy creates a policy with zero weights.
// With probability epsilon a random one-piece candidate is played instead
// of the search result.
func NewTDPolicy(alpha, discount, epsilon float64, topK int, seed uint64) *TDPolicy {
	weights := NewWeights()
	return &TDPolicy{
		weights:  weights,
		search:   NewSearch(weights, topK),
		alpha:    alpha,
		discount: discount,
		epsilon:  epsilon,
		topK:     topK,
		rand:     rand.New(rand.NewSource(seed)),
	}
}

func (t *TDPolicy) Weights() *Weights {
	return t.weights
}

// SetWeights replaces the weight vector, e.g. with one loaded from a store
func (t *TDPolicy) SetWeights(w *Weights) {
	t.weights = w
	t.search = NewSearch(w, t.topK)
}

func (t *TDPolicy) Alpha() float64 {
	return t.alpha
}

func (t *TDPolicy) SetAlpha(alpha float64) {
	t.alpha = alpha
}

func (t *TDPolicy) Epsilon() float64 {
	return t.epsilon
}

func (t *TDPolicy) SetEpsilon(epsilon float64) {
	t.epsilon = epsilon
}

// Reset forgets everything learned
func (t *TDPolicy) Reset() {
	t.SetWeights(NewWeights())
}

// Record writes the weights to path
func (t *TDPolicy) Record(path string) error {
	return t.weights.Record(path)
}

// Q estimates the value of playing seq on the current piece
func (t *TDPolicy) Q(state tetris.Snapshot, seq tetris.Sequence) float64 {
	return t.search.QPlan(state, tetris.Plan{First: seq})
}

// MaxQ is the value of the best lookahead plan from state
func (t *TDPolicy) MaxQ(state tetris.Snapshot) float64 {
	return t.search.Best(state, LegalSequences(state)).Q
}

// ChooseActionSequence picks the plan to play from a non-terminal state
func (t *TDPolicy) ChooseActionSequence(state tetris.Snapshot) Candidate {
	candidates := LegalSequences(state)
	if t.epsilon > 0 && t.rand.Float64() < t.epsilon {
		seq := candidates[t.rand.Intn(len(candidates))]
		return Candidate{Q: t.Q(state, seq), Plan: tetris.Plan{First: seq}}
	}
	return t.search.Best(state, candidates)
}

// Reward is the negated change in pile height between two captures
func Reward(before, after tetris.Snapshot) float64 {
	return float64(PileHeight(before.Board) - PileHeight(after.Board))
}

// NotifyOutcome computes the reward of the transition and, unless the game
// ended, applies the TD update. Returns the reward.
func (t *TDPolicy) NotifyOutcome(before tetris.Snapshot, seq tetris.Sequence, after tetris.Snapshot) float64 {
	reward := Reward(before, after)
	if !after.GameOver {
		t.Update(before, seq, after, reward)
	}
	return reward
}

// Update applies TD(0):
//
//	error = reward + discount * maxQ(next) - Q(state, seq)
//	w[f] = (1 - alpha) * w[f] + alpha * error * f(state, successor)
//
// where the successor is obtained by simulating seq from state.
func (t *TDPolicy) Update(state tetris.Snapshot, seq tetris.Sequence, next tetris.Snapshot, reward float64) {
	current := t.Q(state, seq)
	target := reward + t.discount*t.MaxQ(next)
	tdError := target - current

	features := Extract(state, Simulate(state, seq))
	for _, f := range features.Names() {
		val := features[f]
		t.weights.Set(f, (1-t.alpha)*t.weights.Get(f)+t.alpha*tdError*val)
	}
}
