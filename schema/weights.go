package schema

import (
	"fmt"
	"maps"
)

// UnsetWeight marks a subscale whose weight has not been derived yet.
const UnsetWeight = -1

// WeightMap maps each subscale of an instrument to its pairwise win count.
type WeightMap map[SubscaleID]int

// NewUnsetWeights returns a weight map with every subscale of in set to UnsetWeight.
func NewUnsetWeights(in *Instrument) WeightMap {
	w := make(WeightMap, in.Len())
	for _, id := range in.IDs() {
		w[id] = UnsetWeight
	}
	return w
}

// Clone returns an independent copy.
func (w WeightMap) Clone() WeightMap {
	if w == nil {
		return nil
	}
	return maps.Clone(w)
}

// Valid reports whether the map is non-empty and has no negative entries.
func (w WeightMap) Valid() bool {
	if len(w) == 0 {
		return false
	}
	for _, v := range w {
		if v < 0 {
			return false
		}
	}
	return true
}

// Sum returns the total of all entries.
func (w WeightMap) Sum() int {
	total := 0
	for _, v := range w {
		total += v
	}
	return total
}

// RatingMap maps subscales to their 0..100 rating for a single task.
type RatingMap map[SubscaleID]int

// Clone returns an independent copy.
func (r RatingMap) Clone() RatingMap {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// Merge returns a new map holding the entries of r and other, other winning on conflict.
func (r RatingMap) Merge(other RatingMap) RatingMap {
	out := make(RatingMap, len(r)+len(other))
	maps.Copy(out, r)
	maps.Copy(out, other)
	return out
}

// PairChoices maps a pair identifier to the long label chosen for that pair.
type PairChoices map[string]string

// CheckWeights verifies that w is a complete weight map for in: every
// subscale present, none negative, no foreign keys, summing to the pair count.
func (in *Instrument) CheckWeights(w WeightMap) error {
	for _, id := range in.IDs() {
		v, ok := w[id]
		if !ok {
			return fmt.Errorf("%s weights: missing subscale %s", in.name, id)
		}
		if v < 0 {
			return fmt.Errorf("%s weights: %s is negative (%d)", in.name, id, v)
		}
	}
	for id := range w {
		if !in.Has(id) {
			return fmt.Errorf("%s weights: unknown subscale %s", in.name, id)
		}
	}
	if sum := w.Sum(); sum != in.PairCount() {
		return fmt.Errorf("%s weights must sum to %d (received %d)", in.name, in.PairCount(), sum)
	}
	return nil
}
