package policies

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights is the linear weight vector of the Q estimator.
// Unset features have weight 0.
type Weights struct {
	table map[Feature]float64
}

func NewWeights() *Weights {
	return &Weights{
		table: make(map[Feature]float64),
	}
}

func (w *Weights) Get(f Feature) float64 {
	val, ok := w.table[f]
	if !ok {
		return 0
	}
	return val
}

func (w *Weights) Set(f Feature, val float64) {
	w.table[f] = val
}

// Q is the dot product of the weights and the features.
// Features without a weight contribute 0.
func (w *Weights) Q(features Features) float64 {
	q := 0.0
	for _, f := range features.Names() {
		q += w.Get(f) * features[f]
	}
	return q
}

// Values returns a copy of every known feature's weight
func (w *Weights) Values() map[Feature]float64 {
	out := make(map[Feature]float64, len(AllFeatures))
	for _, f := range AllFeatures {
		out[f] = w.Get(f)
	}
	return out
}

// Load replaces the weights with the given values, dropping unknown names
func (w *Weights) Load(values map[string]float64) {
	w.table = make(map[Feature]float64)
	for name, val := range values {
		if f := Feature(name); IsKnown(f) {
			w.table[f] = val
		}
	}
}

func (w *Weights) MarshalJSON() ([]byte, error) {
	out := make(map[string]float64, len(AllFeatures))
	for f, val := range w.Values() {
		out[string(f)] = val
	}
	return json.Marshal(out)
}

func (w *Weights) UnmarshalJSON(data []byte) error {
	values := make(map[string]float64)
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	w.Load(values)
	return nil
}

// Record writes the weights as JSON to path
func (w *Weights) Record(path string) error {
	bs, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("error encoding weights: %w", err)
	}
	return os.WriteFile(path, bs, 0644)
}

// Read loads the weights from a JSON file written by Record
func (w *Weights) Read(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading weights: %w", err)
	}
	if err := json.Unmarshal(data, w); err != nil {
		return fmt.Errorf("error parsing weights: %w", err)
	}
	return nil
}

func (w *Weights) String() string {
	out := ""
	for _, f := range AllFeatures {
		out += fmt.Sprintf("%s: %f\n", f, w.Get(f))
	}
	return out
}
