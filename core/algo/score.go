package algo

import "github.com/tlxkit/tlxkit/schema"

// MapSAQTo100 maps an SAQ rating onto the 0..100 scale used by the weighted sum.
// SAQ ratings are already collected on 0..100, so this stays the identity
// until the SAQ response scale is settled.
func MapSAQTo100(rating int) float64 {
	return float64(rating)
}

func ratingValue(in *schema.Instrument, rating int) float64 {
	if in.Name() == schema.SAQName {
		return MapSAQTo100(rating)
	}
	return float64(rating)
}

// RawScore is the mean rating over the subscales of in.
func RawScore(in *schema.Instrument, ratings schema.RatingMap) float64 {
	sum := 0.0
	for _, id := range in.IDs() {
		sum += ratingValue(in, ratings[id])
	}
	return sum / float64(in.Len())
}

// WeightedScore is the sum of rating×weight over the subscales of in,
// divided by the pair count. It is unavailable when any weight is negative
// or missing.
func WeightedScore(in *schema.Instrument, ratings schema.RatingMap, weights schema.WeightMap) schema.Score {
	sum := 0.0
	for _, id := range in.IDs() {
		w, ok := weights[id]
		if !ok || w < 0 {
			return schema.Unavailable()
		}
		sum += ratingValue(in, ratings[id]) * float64(w)
	}
	return schema.Valid(sum / float64(in.PairCount()))
}

// ScoreInstrument returns the raw and weighted score of a single instrument.
func ScoreInstrument(in *schema.Instrument, ratings schema.RatingMap, weights schema.WeightMap) (raw, weighted schema.Score) {
	return schema.Valid(RawScore(in, ratings)), WeightedScore(in, ratings, weights)
}

// Combine averages two scores. The result is unavailable if either input is.
func Combine(a, b schema.Score) schema.Score {
	av, aok := a.Value()
	bv, bok := b.Value()
	if !aok || !bok {
		return schema.Unavailable()
	}
	return schema.Valid((av + bv) / 2)
}

// ComputeScores derives all six scores of a task rated on both instruments.
// The combined raw score is always available; the combined weighted score
// is unavailable whenever either weighted component is.
func ComputeScores(ratings schema.RatingMap, tlxWeights, saqWeights schema.WeightMap) schema.TaskScores {
	rawTLX, weightedTLX := ScoreInstrument(schema.TLX, ratings, tlxWeights)
	rawSAQ, weightedSAQ := ScoreInstrument(schema.SAQ, ratings, saqWeights)
	return schema.TaskScores{
		RawTLX:           rawTLX,
		WeightedTLX:      weightedTLX,
		RawSAQ:           rawSAQ,
		WeightedSAQ:      weightedSAQ,
		CombinedRaw:      Combine(rawTLX, rawSAQ),
		CombinedWeighted: Combine(weightedTLX, weightedSAQ),
	}
}

// ScoreTask derives the scores of the instruments active in mode.
// Scores of inactive instruments, and the combined scores outside of
// CombinedMode, are left unavailable.
func ScoreTask(mode schema.ScoringMode, ratings schema.RatingMap, tlxWeights, saqWeights schema.WeightMap) schema.TaskScores {
	switch mode {
	case schema.CombinedMode:
		return ComputeScores(ratings, tlxWeights, saqWeights)
	case schema.SAQMode:
		raw, weighted := ScoreInstrument(schema.SAQ, ratings, saqWeights)
		return schema.TaskScores{RawSAQ: raw, WeightedSAQ: weighted}
	default:
		raw, weighted := ScoreInstrument(schema.TLX, ratings, tlxWeights)
		return schema.TaskScores{RawTLX: raw, WeightedTLX: weighted}
	}
}
