package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ScoringMode represents which instruments a session rates.
	ScoringMode string

	// DatabaseBackend represents the database backend for the results archive.
	DatabaseBackend string

	// Section labels a row of the exported results.
	Section string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All scoring modes supported.
const (
	TLXMode      ScoringMode = "tlx" // default
	SAQMode      ScoringMode = "saq"
	CombinedMode ScoringMode = "combined"
)

// All archive backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Row sections of the results export.
const (
	TLXSection      Section = "TLX Task"
	SAQSection      Section = "SAQ Task"
	CombinedSection Section = "TLX + SAQ"
)

// Fixed columns of the results export, before and after the subscale columns.
const (
	ParticipantColumn = "Participant"
	TaskIDColumn      = "Task Id"
	TaskNameColumn    = "Task Name"
	SectionColumn     = "Section"
	RawScoreColumn    = "r-score"
	WeightScoreColumn = "w-score"
)

// CSVHeader returns the 19 export columns: four leading fields, every TLX
// subscale, every SAQ subscale, then the raw and weighted scores.
func CSVHeader() []string {
	header := []string{ParticipantColumn, TaskIDColumn, TaskNameColumn, SectionColumn}
	for _, in := range Instruments {
		for _, id := range in.IDs() {
			header = append(header, string(id))
		}
	}
	return append(header, RawScoreColumn, WeightScoreColumn)
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidScoringModes lists all valid scoring modes.
var ValidScoringModes = map[ScoringMode]struct{}{
	TLXMode:      {},
	SAQMode:      {},
	CombinedMode: {},
}

// ValidDatabaseBackends lists all valid archive backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// UsesTLX reports whether the mode rates TLX subscales.
func (m ScoringMode) UsesTLX() bool { return m == TLXMode || m == CombinedMode }

// UsesSAQ reports whether the mode rates SAQ subscales.
func (m ScoringMode) UsesSAQ() bool { return m == SAQMode || m == CombinedMode }

// Instruments returns the instruments rated in this mode.
func (m ScoringMode) Instruments() []*Instrument {
	var out []*Instrument
	if m.UsesTLX() {
		out = append(out, TLX)
	}
	if m.UsesSAQ() {
		out = append(out, SAQ)
	}
	return out
}

// Sections returns the export sections emitted for each task in this mode.
func (m ScoringMode) Sections() []Section {
	switch m {
	case SAQMode:
		return []Section{SAQSection}
	case CombinedMode:
		return []Section{TLXSection, SAQSection, CombinedSection}
	default:
		return []Section{TLXSection}
	}
}
