package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlxkit/tlxkit/schema"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    schema.Score
		expected string
	}{
		{"unavailable", schema.Unavailable(), UnavailableValue},
		{"zero", schema.Valid(0), LowValue},
		{"just before medium", schema.Valid(9.99), LowValue},
		{"exactly medium", schema.Valid(10), MediumValue},
		{"just before somewhat high", schema.Valid(29.9), MediumValue},
		{"exactly somewhat high", schema.Valid(30), SomewhatHighValue},
		{"exactly high", schema.Valid(50), HighValue},
		{"just before very high", schema.Valid(79.9), HighValue},
		{"exactly very high", schema.Valid(80), VeryHighValue},
		{"maximum", schema.Valid(100), VeryHighValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name  string
		score schema.Score
		label string
	}{
		{"low", schema.Valid(5), LowValue},
		{"medium", schema.Valid(20), MediumValue},
		{"somewhat high", schema.Valid(40), SomewhatHighValue},
		{"high", schema.Valid(70), HighValue},
		{"very high", schema.Valid(90), VeryHighValue},
		{"unavailable", schema.Unavailable(), UnavailableValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(tt.score), tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "pilot_P01.csv")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetArchiveDBFilePath(t *testing.T) {
	path := GetArchiveDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".tlxkit_archive.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "Landing", TruncateName("Landing", 10))
	assert.Equal(t, "Approa...", TruncateName("Approach and landing", 9))
	assert.Equal(t, "Approach", TruncateName("Approach", 3))
	assert.Equal(t, "飞行...", TruncateName("飞行任务一二", 5))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	quiet := NewLogger(&buf, false)
	quiet.Debug("hidden")
	assert.Empty(t, buf.String())

	verbose := NewLogger(&buf, true)
	verbose.Debug("task submitted", "task_id", 1)
	assert.Contains(t, buf.String(), "task submitted")
	assert.Contains(t, buf.String(), "task_id=1")
	assert.Contains(t, buf.String(), "timestamp=")

	DiscardLogger().Error("dropped")
}
