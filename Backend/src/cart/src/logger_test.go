package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_Level(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	require.NoError(t, setupLogger("warn", "json"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	require.Error(t, setupLogger("loud", "json"))
}

func TestLogOutput(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Same(t, f, logOutput("json", f))
	// un archivo no es terminal
	assert.Same(t, f, logOutput("", f))
	assert.IsType(t, zerolog.ConsoleWriter{}, logOutput("console", f))
}
