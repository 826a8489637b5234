package core

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/tlxkit/tlxkit/core/algo"
	"github.com/tlxkit/tlxkit/schema"
)

// Input errors. They wrap the algo errors where one exists so callers can
// match either.
var (
	ErrUnknownLabel    = errors.New("unknown subscale label")
	ErrUnknownSubscale = errors.New("unknown subscale")
	ErrDuplicateChoice = errors.New("pair answered more than once")
	ErrDuplicateWeight = errors.New("subscale weighted more than once")
	ErrMissingChoice   = algo.ErrMissingChoice
	ErrUnknownPair     = algo.ErrUnknownPair
)

// maxSuggestionDistance caps how far a typo may be from a label and still
// produce a suggestion.
const maxSuggestionDistance = 4

// fold returns the Unicode case-folded, trimmed form of s.
// A fresh Caser per call since Caser is not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ResolveLabel maps user text to a subscale of in. It accepts the long
// label or the short id, compared case-insensitively.
func ResolveLabel(in *schema.Instrument, text string) (schema.SubscaleID, error) {
	key := fold(text)
	for _, s := range in.Subscales() {
		if key == fold(s.Label) || key == fold(string(s.ID)) {
			return s.ID, nil
		}
	}
	return "", fmt.Errorf("%s: %w %q%s", in.Name(), ErrUnknownLabel, text, suggest(in, key))
}

// suggest returns a " (did you mean ...?)" hint naming the closest label, or "".
func suggest(in *schema.Instrument, key string) string {
	best, bestDistance := "", -1
	for _, s := range in.Subscales() {
		d := levenshtein.ComputeDistance(key, fold(s.Label))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = s.Label, d
		}
	}
	if bestDistance < 0 || bestDistance > maxSuggestionDistance {
		return ""
	}
	return fmt.Sprintf(" (did you mean %q?)", best)
}

// ResolveSubscale maps a subscale id in any case to its canonical id.
func ResolveSubscale(in *schema.Instrument, text string) (schema.SubscaleID, error) {
	id := schema.SubscaleID(strings.ToUpper(strings.TrimSpace(text)))
	if !in.Has(id) {
		return "", fmt.Errorf("%s: %w %q", in.Name(), ErrUnknownSubscale, text)
	}
	return id, nil
}

// ResolvePairID maps a pair id in any case and either order to its
// canonical "<A>-<B>" form.
func ResolvePairID(in *schema.Instrument, text string) (string, error) {
	left, right, ok := strings.Cut(text, "-")
	if !ok {
		return "", fmt.Errorf("%s: %w %q", in.Name(), ErrUnknownPair, text)
	}
	a, errA := ResolveSubscale(in, left)
	b, errB := ResolveSubscale(in, right)
	if errA != nil || errB != nil {
		return "", fmt.Errorf("%s: %w %q", in.Name(), ErrUnknownPair, text)
	}
	if p, ok := in.Pair(schema.Pair{A: a, B: b}.ID()); ok {
		return p.ID(), nil
	}
	if p, ok := in.Pair(schema.Pair{A: b, B: a}.ID()); ok {
		return p.ID(), nil
	}
	return "", fmt.Errorf("%s: %w %q", in.Name(), ErrUnknownPair, text)
}

// NormalizeChoices turns user-entered pair choices into the canonical
// form DeriveWeights expects: canonical pair ids mapped to long labels.
// Every problem found is reported, not only the first one.
func NormalizeChoices(in *schema.Instrument, raw map[string]string) (schema.PairChoices, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	out := make(schema.PairChoices, len(raw))
	for _, key := range keys {
		pairID, err := ResolvePairID(in, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		id, err := ResolveLabel(in, raw[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("pair %s: %w", pairID, err))
			continue
		}
		if _, dup := out[pairID]; dup {
			errs = append(errs, fmt.Errorf("%s %s: %w", in.Name(), pairID, ErrDuplicateChoice))
			continue
		}
		out[pairID] = in.Label(id)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := algo.ValidateChoices(in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeWeights resolves subscale ids in any case and checks the map
// is a complete weight map for in.
func NormalizeWeights(in *schema.Instrument, raw map[string]int) (schema.WeightMap, error) {
	w := make(schema.WeightMap, len(raw))
	for _, key := range sortedKeys(raw) {
		id, err := ResolveSubscale(in, key)
		if err != nil {
			return nil, err
		}
		if _, dup := w[id]; dup {
			return nil, fmt.Errorf("%s %s: %w", in.Name(), id, ErrDuplicateWeight)
		}
		w[id] = raw[key]
	}
	if err := in.CheckWeights(w); err != nil {
		return nil, err
	}
	return w, nil
}
