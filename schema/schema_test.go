package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentPairSets(t *testing.T) {
	tests := []struct {
		name      string
		in        *Instrument
		size      int
		pairCount int
		first     string
		last      string
	}{
		{"tlx", TLX, 6, 15, "MD-PD", "EF-FR"},
		{"saq", SAQ, 7, 21, "AD-AS", "FWD-OA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.size, tt.in.Len())
			assert.Equal(t, tt.pairCount, tt.in.PairCount())
			pairs := tt.in.Pairs()
			require.Len(t, pairs, tt.pairCount)
			assert.Equal(t, tt.first, pairs[0].ID())
			assert.Equal(t, tt.last, pairs[len(pairs)-1].ID())

			// every subscale appears in exactly n-1 pairs
			appearances := make(map[SubscaleID]int)
			seen := make(map[string]bool)
			for _, p := range pairs {
				appearances[p.A]++
				appearances[p.B]++
				assert.False(t, seen[p.ID()], "duplicate pair %s", p.ID())
				seen[p.ID()] = true
			}
			for _, id := range tt.in.IDs() {
				assert.Equal(t, tt.size-1, appearances[id], "subscale %s", id)
			}
		})
	}
}

func TestInstrumentPairOrderIsCanonical(t *testing.T) {
	ids := TLX.IDs()
	position := make(map[SubscaleID]int)
	for i, id := range ids {
		position[id] = i
	}
	for _, p := range TLX.Pairs() {
		assert.Less(t, position[p.A], position[p.B], p.ID())
	}
}

func TestInstrumentLookups(t *testing.T) {
	id, ok := TLX.IDForLabel("Mental Demand")
	assert.True(t, ok)
	assert.Equal(t, SubscaleID("MD"), id)

	id, ok = SAQ.IDForLabel("Look Ahead / Foresee")
	assert.True(t, ok)
	assert.Equal(t, SubscaleID("FWD"), id)

	_, ok = TLX.IDForLabel("Attentional Demand")
	assert.False(t, ok)

	assert.Equal(t, "Understanding of What Was Going On", SAQ.Label("UWO"))
	assert.Empty(t, TLX.Label("OA"))

	p, ok := SAQ.Pair("OCI-OA")
	assert.True(t, ok)
	assert.Equal(t, Pair{A: "OCI", B: "OA"}, p)

	_, ok = SAQ.Pair("OA-OCI")
	assert.False(t, ok)

	s, ok := TLX.Subscale("PF")
	require.True(t, ok)
	assert.Equal(t, "Perfect", s.Low)
	assert.Equal(t, "Failure", s.High)
}

func TestInstrumentCopiesAreIndependent(t *testing.T) {
	pairs := TLX.Pairs()
	pairs[0] = Pair{A: "XX", B: "YY"}
	assert.Equal(t, "MD-PD", TLX.Pairs()[0].ID())

	subs := TLX.Subscales()
	subs[0].Label = "changed"
	assert.Equal(t, "Mental Demand", TLX.Label("MD"))
}

func TestInstrumentByName(t *testing.T) {
	in, ok := InstrumentByName(SAQName)
	assert.True(t, ok)
	assert.Same(t, SAQ, in)

	_, ok = InstrumentByName("sart")
	assert.False(t, ok)
}

func TestCSVHeader(t *testing.T) {
	header := CSVHeader()
	require.Len(t, header, 19)
	assert.Equal(t,
		"Participant,Task Id,Task Name,Section,MD,PD,TD,PF,EF,FR,AD,AS,UN,OCI,UWO,FWD,OA,r-score,w-score",
		strings.Join(header, ","))
}

func TestScoringModeInstrumentsAndSections(t *testing.T) {
	tests := []struct {
		mode        ScoringMode
		instruments []*Instrument
		sections    []Section
	}{
		{TLXMode, []*Instrument{TLX}, []Section{TLXSection}},
		{SAQMode, []*Instrument{SAQ}, []Section{SAQSection}},
		{CombinedMode, []*Instrument{TLX, SAQ}, []Section{TLXSection, SAQSection, CombinedSection}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.instruments, tt.mode.Instruments())
			assert.Equal(t, tt.sections, tt.mode.Sections())
		})
	}
}

func TestSessionInfoFileName(t *testing.T) {
	info := SessionInfo{Study: "pilot, v2", Participant: "P 01"}
	assert.Equal(t, "pilot, v2_P 01.csv", info.FileName("csv"))
}

func TestScoreFormat(t *testing.T) {
	tests := []struct {
		name     string
		score    Score
		digits   int
		expected string
	}{
		{"valid four decimals", Valid(530.0 / 15.0), 4, "35.3333"},
		{"valid whole", Valid(35), 4, "35.0000"},
		{"valid two decimals", Valid(50), 2, "50.00"},
		{"unavailable", Unavailable(), 4, "NaN"},
		{"zero value", Score{}, 2, "NaN"},
		{"zero is valid", Valid(0), 4, "0.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.score.Format(tt.digits))
		})
	}
}

func TestScorePtrRoundTrip(t *testing.T) {
	assert.Nil(t, Unavailable().Ptr())
	p := Valid(12.5).Ptr()
	require.NotNil(t, p)
	assert.Equal(t, 12.5, *p)
	assert.Equal(t, Valid(12.5), ScoreFromPtr(p))
	assert.Equal(t, Unavailable(), ScoreFromPtr(nil))
}

func TestScoreJSON(t *testing.T) {
	scores := TaskScores{RawTLX: Valid(35), WeightedTLX: Unavailable()}
	data, err := json.Marshal(scores)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"raw_tlx":35`)
	assert.Contains(t, string(data), `"weighted_tlx":null`)

	var decoded TaskScores
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, scores, decoded)
}

func TestWeightMap(t *testing.T) {
	unset := NewUnsetWeights(TLX)
	assert.Len(t, unset, 6)
	assert.False(t, unset.Valid())
	assert.Equal(t, -6, unset.Sum())

	w := WeightMap{"MD": 3, "PD": 2, "TD": 1, "PF": 4, "EF": 3, "FR": 2}
	assert.True(t, w.Valid())
	assert.Equal(t, 15, w.Sum())

	clone := w.Clone()
	clone["MD"] = 0
	assert.Equal(t, 3, w["MD"])

	assert.False(t, WeightMap{}.Valid())
	assert.Nil(t, WeightMap(nil).Clone())
}

func TestRatingMapMerge(t *testing.T) {
	tlx := RatingMap{"MD": 50, "PD": 30}
	saq := RatingMap{"AD": 70}
	merged := tlx.Merge(saq)
	assert.Equal(t, RatingMap{"MD": 50, "PD": 30, "AD": 70}, merged)

	merged["MD"] = 0
	assert.Equal(t, 50, tlx["MD"])
}

func TestCheckWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights WeightMap
		errMsg  string
	}{
		{"valid", WeightMap{"MD": 3, "PD": 2, "TD": 1, "PF": 4, "EF": 3, "FR": 2}, ""},
		{"missing", WeightMap{"MD": 5, "PD": 2, "TD": 1, "PF": 4, "EF": 3}, "missing subscale FR"},
		{"negative", WeightMap{"MD": -1, "PD": 3, "TD": 2, "PF": 4, "EF": 4, "FR": 3}, "MD is negative"},
		{"foreign", WeightMap{"MD": 3, "PD": 2, "TD": 1, "PF": 4, "EF": 3, "FR": 2, "OA": 0}, "unknown subscale OA"},
		{"wrong sum", WeightMap{"MD": 3, "PD": 2, "TD": 1, "PF": 4, "EF": 3, "FR": 3}, "must sum to 15 (received 16)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TLX.CheckWeights(tt.weights)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSessionResultsTaskRecords(t *testing.T) {
	results := SessionResults{
		SessionInfo: SessionInfo{Study: "S", Participant: "P", Mode: TLXMode},
		Tasks: []TaskResult{
			{
				ID:         1,
				Name:       "a",
				Ratings:    RatingMap{"MD": 50},
				TLXWeights: WeightMap{"MD": 5},
				Scores:     TaskScores{RawTLX: Valid(35), WeightedTLX: Unavailable()},
			},
			{ID: 2, Name: "b", Ratings: RatingMap{}},
		},
	}

	records, err := results.TaskRecords(9)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(9), first.SessionID)
	assert.Equal(t, int32(1), first.TaskID)
	assert.Equal(t, `{"MD":50}`, first.Ratings)
	require.NotNil(t, first.TLXWeights)
	assert.Equal(t, `{"MD":5}`, *first.TLXWeights)
	assert.Nil(t, first.SAQWeights)
	require.NotNil(t, first.RawTLX)
	assert.InDelta(t, 35.0, *first.RawTLX, 1e-9)
	assert.Nil(t, first.WeightedTLX)

	assert.Equal(t, "{}", records[1].Ratings)
	assert.Nil(t, records[1].TLXWeights)
}
