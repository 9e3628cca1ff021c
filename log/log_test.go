package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLevelString tests the level names
func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
	assert.Equal(t, "LEVEL(42)", Level(42).String())
}

// TestLoggerFiltering tests that events below the level are dropped
func TestLoggerFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WarnLevel)

	l.Debug().Msg("dropped")
	l.Info().Msg("dropped too")
	l.Warn().Msg("kept")
	l.Error().Msg("kept as well")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "WARN kept")
	assert.Contains(t, out, "ERROR kept as well")
}

// TestLoggerSetLevel tests level changes at runtime
func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	assert.Equal(t, InfoLevel, l.GetLevel())

	l.SetLevel(ErrorLevel)
	assert.Equal(t, ErrorLevel, l.GetLevel())

	l.Info().Msg("invisible")
	assert.Empty(t, buf.String())
}

// TestEventErr tests error attachment
func TestEventErr(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)

	l.Error().Err(errors.New("boom")).Msg("request failed")
	assert.Contains(t, buf.String(), "request failed error=boom")
}

// TestEventMsgf tests formatted messages
func TestEventMsgf(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel)

	l.Info().Msgf("served %d requests on %s", 7, ":3000")
	assert.Contains(t, buf.String(), "served 7 requests on :3000")
}

// TestPackageLevelLogger tests the package-level functions
func TestPackageLevelLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(InfoLevel)
	defer func() {
		SetOutput(os.Stdout)
		SetLevel(InfoLevel)
	}()

	Debug().Msg("filtered")
	Info().Msg("hello")

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "INFO hello")
}
