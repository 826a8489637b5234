package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tlxkit/tlxkit/schema"
)

// Rating bounds. TLX sliders move in steps of TLXStep.
const (
	MinRating = 0
	MaxRating = 100
	TLXStep   = 5
)

// Rating errors.
var (
	ErrMissingRating    = errors.New("missing rating")
	ErrRatingOutOfRange = errors.New("rating out of range")
	ErrRatingStep       = errors.New("rating is not on the slider step")
	ErrDuplicateRating  = errors.New("subscale rated more than once")
)

// NormalizeRatings resolves the keys of raw, given per instrument, into one
// rating map. Keys are subscale ids in any case; two keys naming the same
// subscale are rejected.
func NormalizeRatings(raw map[schema.InstrumentName]map[string]int) (schema.RatingMap, error) {
	out := make(schema.RatingMap)
	for _, in := range schema.Instruments {
		for _, key := range sortedKeys(raw[in.Name()]) {
			id, err := ResolveSubscale(in, key)
			if err != nil {
				return nil, err
			}
			if _, dup := out[id]; dup {
				return nil, fmt.Errorf("%s %s: %w", in.Name(), id, ErrDuplicateRating)
			}
			out[id] = raw[in.Name()][key]
		}
	}
	return out, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ValidateRatings checks that ratings holds exactly the subscales rated in
// mode, each within 0..100, TLX ratings on the slider step.
func ValidateRatings(mode schema.ScoringMode, ratings schema.RatingMap) error {
	var errs []error
	active := make(map[schema.SubscaleID]bool)
	for _, in := range mode.Instruments() {
		for _, id := range in.IDs() {
			active[id] = true
			v, ok := ratings[id]
			if !ok {
				errs = append(errs, fmt.Errorf("%s %s: %w", in.Name(), id, ErrMissingRating))
				continue
			}
			if v < MinRating || v > MaxRating {
				errs = append(errs, fmt.Errorf("%s %s: %d: %w", in.Name(), id, v, ErrRatingOutOfRange))
				continue
			}
			if in == schema.TLX && v%TLXStep != 0 {
				errs = append(errs, fmt.Errorf("%s %s: %d: %w (%d)", in.Name(), id, v, ErrRatingStep, TLXStep))
			}
		}
	}
	extra := make([]string, 0)
	for id := range ratings {
		if !active[id] {
			extra = append(extra, string(id))
		}
	}
	slices.Sort(extra)
	for _, id := range extra {
		errs = append(errs, fmt.Errorf("%s: %w in %s mode", id, ErrUnknownSubscale, mode))
	}
	return errors.Join(errs...)
}
