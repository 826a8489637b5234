package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlxkit/tlxkit/schema"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Mode:           string(schema.TLXMode),
		Study:          "pilot",
		Participant:    "P01",
		Output:         "text",
		ArchiveBackend: "none",
		Emoji:          "no",
		Color:          "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:   "mode is case insensitive",
			mutate: func(in *ConfigRawInput) { in.Mode = "COMBINED" },
		},
		{
			name:        "invalid mode",
			mutate:      func(in *ConfigRawInput) { in.Mode = "sart" },
			expectError: "invalid mode",
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "parquet output requires",
		},
		{
			name: "parquet with download",
			mutate: func(in *ConfigRawInput) {
				in.Output = "parquet"
				in.Download = true
			},
		},
		{
			name:        "invalid color",
			mutate:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: "invalid --color value",
		},
		{
			name:        "negative width",
			mutate:      func(in *ConfigRawInput) { in.Width = -1 },
			expectError: "width cannot be negative",
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.ArchiveBackend = "redis" },
			expectError: "invalid archive backend",
		},
		{
			name:   "empty backend means none",
			mutate: func(in *ConfigRawInput) { in.ArchiveBackend = "" },
		},
		{
			name:        "mysql without connection",
			mutate:      func(in *ConfigRawInput) { in.ArchiveBackend = "mysql" },
			expectError: "archive-db-connect is required",
		},
		{
			name: "postgres with connection",
			mutate: func(in *ConfigRawInput) {
				in.ArchiveBackend = "postgresql"
				in.ArchiveDBConnect = "host=localhost dbname=tlx"
			},
		},
		{
			name: "bad preset sum",
			mutate: func(in *ConfigRawInput) {
				in.Weights.TLX = map[string]int{"md": 5, "pd": 5, "td": 5, "pf": 5, "ef": 0, "fr": 0}
			},
			expectError: "must sum to 15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateTransfersFields(t *testing.T) {
	input := validInput()
	input.Mode = "Combined"
	input.Output = "CSV"
	input.OutputFile = "out.csv"
	input.ScriptPath = "session.yaml"
	input.Verbose = true
	input.Width = 120

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.CombinedMode, cfg.Mode)
	assert.Equal(t, schema.CSVOut, cfg.Output)
	assert.Equal(t, "out.csv", cfg.OutputFile)
	assert.Equal(t, "session.yaml", cfg.ScriptPath)
	assert.Equal(t, schema.NoneBackend, cfg.ArchiveBackend)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.UseEmojis)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, schema.SessionInfo{Study: "pilot", Participant: "P01", Mode: schema.CombinedMode}, cfg.SessionInfo())
}

func TestProcessWeightsRawInput(t *testing.T) {
	presets, err := ProcessWeightsRawInput(WeightsRawInput{
		TLX: map[string]int{"md": 3, "PD": 2, "td": 1, "pf": 4, "ef": 3, "fr": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, schema.WeightMap{"MD": 3, "PD": 2, "TD": 1, "PF": 4, "EF": 3, "FR": 2}, presets[schema.TLXName])
	_, ok := presets[schema.SAQName]
	assert.False(t, ok)

	_, err = ProcessWeightsRawInput(WeightsRawInput{SAQ: map[string]int{"oa": 21}})
	assert.ErrorContains(t, err, "missing subscale")
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Mode:          schema.TLXMode,
		PresetWeights: map[schema.InstrumentName]schema.WeightMap{schema.TLXName: {"MD": 15}},
	}
	clone := cfg.Clone()
	clone.PresetWeights[schema.TLXName]["MD"] = 0
	clone.Mode = schema.SAQMode

	assert.Equal(t, 15, cfg.PresetWeights[schema.TLXName]["MD"])
	assert.Equal(t, schema.TLXMode, cfg.Mode)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "", false},
		{schema.NoneBackend, "", false},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)/tlx", false},
		{schema.MySQLBackend, "user:pass@localhost/tlx", true},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{schema.PostgreSQLBackend, "host=localhost dbname=tlx", false},
		{schema.PostgreSQLBackend, "dbname=tlx", true},
		{schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+tt.conn, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
