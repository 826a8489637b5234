package schema

import (
	"encoding/json"
	"strconv"
)

// NaN is the rendering of an unavailable score.
const NaN = "NaN"

// Score is a derived score that is either a valid number or unavailable.
// The zero value is unavailable.
type Score struct {
	value float64
	valid bool
}

// Valid returns an available score with value v.
func Valid(v float64) Score {
	return Score{value: v, valid: true}
}

// Unavailable returns a score that cannot be computed, such as a weighted
// score taken before weights were set.
func Unavailable() Score {
	return Score{}
}

// ScoreFromPtr converts a nullable value into a Score.
func ScoreFromPtr(v *float64) Score {
	if v == nil {
		return Unavailable()
	}
	return Valid(*v)
}

// IsValid reports whether the score holds a number.
func (s Score) IsValid() bool { return s.valid }

// Value returns the number and whether it is available.
func (s Score) Value() (float64, bool) { return s.value, s.valid }

// Ptr returns a pointer to the value, or nil when unavailable.
func (s Score) Ptr() *float64 {
	if !s.valid {
		return nil
	}
	v := s.value
	return &v
}

// Format renders the score with a fixed number of decimals, or NaN.
func (s Score) Format(digits int) string {
	if !s.valid {
		return NaN
	}
	return strconv.FormatFloat(s.value, 'f', digits, 64)
}

// String implements fmt.Stringer with four decimals.
func (s Score) String() string {
	return s.Format(4)
}

// MarshalJSON encodes an unavailable score as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as unavailable.
func (s *Score) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = ScoreFromPtr(v)
	return nil
}

// TaskScores holds the six derived scores of one task.
// Scores of an instrument that is not active in the session are unavailable.
type TaskScores struct {
	RawTLX           Score `json:"raw_tlx"`
	WeightedTLX      Score `json:"weighted_tlx"`
	RawSAQ           Score `json:"raw_saq"`
	WeightedSAQ      Score `json:"weighted_saq"`
	CombinedRaw      Score `json:"combined_raw"`
	CombinedWeighted Score `json:"combined_weighted"`
}
