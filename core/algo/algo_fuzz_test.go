package algo

import (
	"math"
	"testing"

	"github.com/tlxkit/tlxkit/schema"
)

// FuzzDeriveWeights derives weights from choices picked by the bits of mask.
func FuzzDeriveWeights(f *testing.F) {
	f.Add(uint32(0), true)
	f.Add(uint32(0x7fff), true)
	f.Add(uint32(0x1fffff), false)
	f.Add(uint32(0xaaaaa), false)

	f.Fuzz(func(t *testing.T, mask uint32, useTLX bool) {
		in := schema.SAQ
		if useTLX {
			in = schema.TLX
		}
		choices := make(schema.PairChoices, in.PairCount())
		for i, p := range in.Pairs() {
			id := p.A
			if mask&(1<<i) != 0 {
				id = p.B
			}
			choices[p.ID()] = in.Label(id)
		}

		if err := ValidateChoices(in, choices); err != nil {
			t.Fatalf("generated choices rejected: %v", err)
		}
		weights := DeriveWeights(in, choices)
		if weights.Sum() != in.PairCount() {
			t.Fatalf("weights sum %d, want %d", weights.Sum(), in.PairCount())
		}
		for id, w := range weights {
			if w < 0 || w > in.Len()-1 {
				t.Fatalf("weight of %s out of range: %d", id, w)
			}
		}
	})
}

// FuzzComputeScores checks score bounds for arbitrary in-range ratings.
func FuzzComputeScores(f *testing.F) {
	f.Add(50, 30, 40, 20, 60, 10, 70, uint8(0))
	f.Add(0, 0, 0, 0, 0, 0, 0, uint8(3))
	f.Add(100, 100, 100, 100, 100, 100, 100, uint8(5))

	f.Fuzz(func(t *testing.T, md, pd, td, pf, ef, fr, saq int, winner uint8) {
		clamp := func(v int) int {
			return ((v % 101) + 101) % 101
		}
		ratings := schema.RatingMap{
			"MD": clamp(md), "PD": clamp(pd), "TD": clamp(td),
			"PF": clamp(pf), "EF": clamp(ef), "FR": clamp(fr),
		}
		for _, id := range schema.SAQ.IDs() {
			ratings[id] = clamp(saq)
		}

		// A single subscale takes every comparison.
		tlxWeights := make(schema.WeightMap)
		for i, id := range schema.TLX.IDs() {
			tlxWeights[id] = 0
			if i == int(winner)%schema.TLX.Len() {
				tlxWeights[id] = schema.TLX.PairCount()
			}
		}

		scores := ComputeScores(ratings, tlxWeights, schema.NewUnsetWeights(schema.SAQ))
		for name, s := range map[string]schema.Score{
			"raw_tlx":      scores.RawTLX,
			"weighted_tlx": scores.WeightedTLX,
			"raw_saq":      scores.RawSAQ,
			"combined_raw": scores.CombinedRaw,
		} {
			v, ok := s.Value()
			if !ok {
				t.Fatalf("%s unavailable", name)
			}
			if math.IsNaN(v) || v < 0 || v > 100 {
				t.Fatalf("%s out of range: %v", name, v)
			}
		}
		if scores.WeightedSAQ.IsValid() || scores.CombinedWeighted.IsValid() {
			t.Fatal("unset SAQ weights must leave weighted SAQ unavailable")
		}
	})
}
