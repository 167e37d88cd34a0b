package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, WarnLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, InfoLevel, ParseLevel("verbose"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestConfigureJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	root := Configure(Config{Level: InfoLevel, Output: &buf, Service: "scholarhub"})

	lgr := Component(root, "applications")
	lgr.Info().Str("scholarshipId", "s-1").Msg("created")
	Debug().Msg("dropped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "scholarhub", entry["service"])
	assert.Equal(t, "applications", entry["component"])
	assert.Equal(t, "s-1", entry["scholarshipId"])
	assert.Equal(t, "created", entry["message"])
}

func TestComponentKeepsParentFields(t *testing.T) {
	var buf bytes.Buffer
	parent := zerolog.New(&buf).With().Str("requestId", "r-1").Logger()

	lgr := Component(parent, "stripe")
	lgr.Warn().Msg("checkout failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "stripe", entry["component"])
	assert.Equal(t, "r-1", entry["requestId"])
}
