package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/heliosuite-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, logger.ParseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, logger.ParseLevel("verbose"))
}

func TestComponent_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf})

	c := l.Component("store")
	c.Debug().Msg("descartado")
	c.Info().Str("collection", "clients").Msg("listo")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "clients", entry["collection"])
	assert.Equal(t, "listo", entry["message"])
}
