package logease

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allLevels = []Level{LevelVerbose, LevelDebug, LevelInfo, LevelWarning, LevelError}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelVerbose, "VERBOSE"},
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarning, "WARNING"},
		{LevelError, "ERROR"},
		{Level(9), "UNKNOWN (9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestParseLevel(t *testing.T) {
	for _, l := range allLevels {
		got, err := ParseLevel(l.String())
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	got, err := ParseLevel(" Warn ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarning, got)

	_, err = ParseLevel("fatal")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestShouldEmit(t *testing.T) {
	for _, threshold := range allLevels {
		for _, level := range allLevels {
			assert.Equal(t, level >= threshold, shouldEmit(level, threshold),
				"level %s against minimum %s", level, threshold)
		}
		assert.True(t, shouldEmit(threshold, threshold), "minimum level %s is inclusive", threshold)
	}
}
