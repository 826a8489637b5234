// Package algo has the pure scoring functions: pairwise weight derivation
// and raw/weighted score aggregation. Nothing here holds state.
package algo

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tlxkit/tlxkit/schema"
)

// Errors reported by ValidateChoices.
var (
	ErrMissingChoice = errors.New("pair has no choice")
	ErrInvalidChoice = errors.New("choice is not one of the pair's subscales")
	ErrUnknownPair   = errors.New("unknown pair")
)

// ValidateChoices verifies that choices answers every pair of in exactly once,
// each with one of the two long labels of that pair.
func ValidateChoices(in *schema.Instrument, choices schema.PairChoices) error {
	var errs []error
	for _, p := range in.Pairs() {
		label, ok := choices[p.ID()]
		if !ok {
			errs = append(errs, fmt.Errorf("%s %s: %w", in.Name(), p.ID(), ErrMissingChoice))
			continue
		}
		if label != in.Label(p.A) && label != in.Label(p.B) {
			errs = append(errs, fmt.Errorf("%s %s: %q: %w", in.Name(), p.ID(), label, ErrInvalidChoice))
		}
	}

	// Report extra keys in a stable order.
	extra := make([]string, 0)
	for pairID := range choices {
		if _, ok := in.Pair(pairID); !ok {
			extra = append(extra, pairID)
		}
	}
	slices.Sort(extra)
	for _, pairID := range extra {
		errs = append(errs, fmt.Errorf("%s %s: %w", in.Name(), pairID, ErrUnknownPair))
	}

	return errors.Join(errs...)
}

// DeriveWeights counts, for every subscale of in, how many of its pairwise
// comparisons it won. The result has no negative entries and sums to
// in.PairCount().
//
// choices must satisfy ValidateChoices. A missing or foreign choice is a broken
// caller contract and panics.
func DeriveWeights(in *schema.Instrument, choices schema.PairChoices) schema.WeightMap {
	weights := make(schema.WeightMap, in.Len())
	for _, id := range in.IDs() {
		weights[id] = 0
	}

	for _, p := range in.Pairs() {
		label, ok := choices[p.ID()]
		if !ok {
			panic(fmt.Sprintf("algo: no choice for %s pair %s", in.Name(), p.ID()))
		}
		id, ok := in.IDForLabel(label)
		if !ok || (id != p.A && id != p.B) {
			panic(fmt.Sprintf("algo: choice %q does not belong to %s pair %s", label, in.Name(), p.ID()))
		}
		weights[id]++
	}

	return weights
}
