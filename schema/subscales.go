// Package schema has the models, registries and constants shared by all parts of tlxkit.
package schema

// SubscaleID is the short identifier of a subscale, such as "MD" or "OCI".
type SubscaleID string

// InstrumentName identifies a questionnaire.
type InstrumentName string

// All instruments supported.
const (
	TLXName InstrumentName = "tlx"
	SAQName InstrumentName = "saq"
)

// Subscale is one rated dimension of an instrument.
type Subscale struct {
	ID       SubscaleID `json:"id"`
	Label    string     `json:"label"`
	Question string     `json:"question"`
	Low      string     `json:"low"`
	High     string     `json:"high"`
}

// Pair is an unordered comparison between two subscales, stored in canonical order.
type Pair struct {
	A SubscaleID `json:"a"`
	B SubscaleID `json:"b"`
}

// ID returns the pair identifier "<A>-<B>".
func (p Pair) ID() string {
	return string(p.A) + "-" + string(p.B)
}

// Instrument is an ordered, immutable set of subscales together with
// every pairwise comparison between them.
type Instrument struct {
	name      InstrumentName
	subscales []Subscale
	pairs     []Pair
	byID      map[SubscaleID]int
	byLabel   map[string]SubscaleID
	byPair    map[string]int
}

func newInstrument(name InstrumentName, subscales ...Subscale) *Instrument {
	in := &Instrument{
		name:      name,
		subscales: subscales,
		byID:      make(map[SubscaleID]int, len(subscales)),
		byLabel:   make(map[string]SubscaleID, len(subscales)),
		byPair:    make(map[string]int),
	}
	for i, s := range subscales {
		in.byID[s.ID] = i
		in.byLabel[s.Label] = s.ID
	}
	for i := range subscales {
		for j := i + 1; j < len(subscales); j++ {
			p := Pair{A: subscales[i].ID, B: subscales[j].ID}
			in.byPair[p.ID()] = len(in.pairs)
			in.pairs = append(in.pairs, p)
		}
	}
	return in
}

// Name returns the instrument name.
func (in *Instrument) Name() InstrumentName { return in.name }

// Len returns the number of subscales.
func (in *Instrument) Len() int { return len(in.subscales) }

// PairCount returns n(n-1)/2, the number of pairwise comparisons.
func (in *Instrument) PairCount() int { return len(in.pairs) }

// Subscales returns a copy of the ordered subscales.
func (in *Instrument) Subscales() []Subscale {
	out := make([]Subscale, len(in.subscales))
	copy(out, in.subscales)
	return out
}

// IDs returns the subscale identifiers in canonical order.
func (in *Instrument) IDs() []SubscaleID {
	out := make([]SubscaleID, len(in.subscales))
	for i, s := range in.subscales {
		out[i] = s.ID
	}
	return out
}

// Pairs returns a copy of the pair set in canonical order.
func (in *Instrument) Pairs() []Pair {
	out := make([]Pair, len(in.pairs))
	copy(out, in.pairs)
	return out
}

// Has reports whether id belongs to the instrument.
func (in *Instrument) Has(id SubscaleID) bool {
	_, ok := in.byID[id]
	return ok
}

// Subscale looks up a subscale by its short identifier.
func (in *Instrument) Subscale(id SubscaleID) (Subscale, bool) {
	i, ok := in.byID[id]
	if !ok {
		return Subscale{}, false
	}
	return in.subscales[i], true
}

// Label returns the long label for id, or the empty string.
func (in *Instrument) Label(id SubscaleID) string {
	s, _ := in.Subscale(id)
	return s.Label
}

// IDForLabel maps an exact long label back to its short identifier.
func (in *Instrument) IDForLabel(label string) (SubscaleID, bool) {
	id, ok := in.byLabel[label]
	return id, ok
}

// Pair looks up a pair by its identifier.
func (in *Instrument) Pair(pairID string) (Pair, bool) {
	i, ok := in.byPair[pairID]
	if !ok {
		return Pair{}, false
	}
	return in.pairs[i], true
}

// TLX is the NASA Task Load Index.
var TLX = newInstrument(TLXName,
	Subscale{ID: "MD", Label: "Mental Demand", Question: "How mentally demanding was the task?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "PD", Label: "Physical Demand", Question: "How physically demanding was the task?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "TD", Label: "Temporal Demand", Question: "How hurried or rushed was the pace of the task?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "PF", Label: "Performance", Question: "How successful were you in accomplishing what you were asked to do?", Low: "Perfect", High: "Failure"},
	Subscale{ID: "EF", Label: "Effort", Question: "How hard did you have to work to accomplish your level of performance?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "FR", Label: "Frustration", Question: "How insecure, discouraged, irritated, stressed, and annoyed were you?", Low: "Very Low", High: "Very High"},
)

// SAQ is the Situation Awareness Questionnaire.
var SAQ = newInstrument(SAQName,
	Subscale{ID: "AD", Label: "Attentional Demand", Question: "How much did the task demand of your attention?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "AS", Label: "Attentional Supply", Question: "How much attention were you able to give to the task?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "UN", Label: "Understanding", Question: "How well did you understand the situation?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "OCI", Label: "Observation of Critical Information", Question: "How well did you notice the critical information?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "UWO", Label: "Understanding of What Was Going On", Question: "How well did you understand what was going on?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "FWD", Label: "Look Ahead / Foresee", Question: "How well could you anticipate what would happen next?", Low: "Very Low", High: "Very High"},
	Subscale{ID: "OA", Label: "Overall Awareness", Question: "How aware were you of the overall situation?", Low: "Very Low", High: "Very High"},
)

// Instruments lists every registered instrument in display order.
var Instruments = []*Instrument{TLX, SAQ}

// InstrumentByName returns the registered instrument with the given name.
func InstrumentByName(name InstrumentName) (*Instrument, bool) {
	for _, in := range Instruments {
		if in.name == name {
			return in, true
		}
	}
	return nil, false
}
