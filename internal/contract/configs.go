package contract

import (
	"fmt"
	"maps"
	"strings"

	"github.com/tlxkit/tlxkit/schema"
)

// DefaultSAQDigits is the number of decimals for SAQ rating echoes in exports.
const DefaultSAQDigits = 2

// DefaultScoreDigits is the number of decimals for scores in exports.
const DefaultScoreDigits = 4

// WeightsRawInput holds preset weight maps from the YAML config file.
// Keys are subscale ids in any case, e.g. `md: 3`.
type WeightsRawInput struct {
	TLX map[string]int `mapstructure:"tlx"`
	SAQ map[string]int `mapstructure:"saq"`
}

// Config holds the runtime configuration for a session.
// This struct is the "final, validated" config.
type Config struct {
	ScriptPath  string
	Mode        schema.ScoringMode
	Study       string
	Participant string
	Output      schema.OutputMode
	OutputFile  string
	Download    bool // Write to <study>_<participant>.<ext> when no output file is given
	Width       int  // Terminal width override (0 = auto-detect)
	Verbose     bool

	ArchiveBackend   schema.DatabaseBackend
	ArchiveDBConnect string // Please use env var as this is plaintext

	// PresetWeights is a mapping of [InstrumentName] = validated weight map.
	// Sessions start from these instead of the unset map.
	PresetWeights map[schema.InstrumentName]schema.WeightMap

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ScriptPath string

	// --- Fields from rootCmd.PersistentFlags() ---
	Mode             string `mapstructure:"mode"`
	Study            string `mapstructure:"study"`
	Participant      string `mapstructure:"participant"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Download         bool   `mapstructure:"download"`
	Width            int    `mapstructure:"width"`
	Verbose          bool   `mapstructure:"verbose"`
	ArchiveBackend   string `mapstructure:"archive-backend"`
	ArchiveDBConnect string `mapstructure:"archive-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Preset weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.PresetWeights != nil {
		clone.PresetWeights = make(map[schema.InstrumentName]schema.WeightMap, len(c.PresetWeights))
		for name, w := range c.PresetWeights {
			clone.PresetWeights[name] = w.Clone()
		}
	}
	return &clone
}

// SessionInfo returns the identity of the session described by this config.
func (c *Config) SessionInfo() schema.SessionInfo {
	return schema.SessionInfo{Study: c.Study, Participant: c.Participant, Mode: c.Mode}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processPresetWeights(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("archive-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("archive-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseDatabaseBackend normalizes a backend name; empty means none.
func ParseDatabaseBackend(s string) (schema.DatabaseBackend, error) {
	if s == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(s))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid archive backend '%s'. must be sqlite, mysql, postgresql, none", s)
	}
	return backend, nil
}

// validateBackendConfigs validates the archive backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend, err := ParseDatabaseBackend(input.ArchiveBackend)
	if err != nil {
		return err
	}
	cfg.ArchiveBackend = backend
	cfg.ArchiveDBConnect = input.ArchiveDBConnect
	return ValidateDatabaseConnectionString(cfg.ArchiveBackend, cfg.ArchiveDBConnect)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.ScriptPath = input.ScriptPath
	cfg.Study = input.Study
	cfg.Participant = input.Participant
	cfg.OutputFile = input.OutputFile
	cfg.Download = input.Download
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Mode Validation ---
	cfg.Mode = schema.ScoringMode(strings.ToLower(input.Mode))
	if _, ok := schema.ValidScoringModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be tlx, saq, combined", input.Mode)
	}

	// --- 2. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" && !cfg.Download {
		return fmt.Errorf("parquet output requires --output-file or --download")
	}

	return nil
}

// ProcessWeightsRawInput converts raw preset maps into validated weight maps.
// An instrument without a preset is absent from the result.
func ProcessWeightsRawInput(weights WeightsRawInput) (map[schema.InstrumentName]schema.WeightMap, error) {
	out := make(map[schema.InstrumentName]schema.WeightMap)
	raw := map[*schema.Instrument]map[string]int{
		schema.TLX: weights.TLX,
		schema.SAQ: weights.SAQ,
	}
	for _, in := range schema.Instruments {
		entries := raw[in]
		if len(entries) == 0 {
			continue
		}
		w := make(schema.WeightMap, len(entries))
		for key, v := range entries {
			w[schema.SubscaleID(strings.ToUpper(strings.TrimSpace(key)))] = v
		}
		if err := in.CheckWeights(w); err != nil {
			return nil, fmt.Errorf("invalid preset: %w", err)
		}
		out[in.Name()] = w
	}
	return out, nil
}

// processPresetWeights validates preset weight maps from the config file.
func processPresetWeights(cfg *Config, input *ConfigRawInput) error {
	presets, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return err
	}
	cfg.PresetWeights = maps.Clone(presets)
	return nil
}
