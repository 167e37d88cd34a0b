package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	var body struct {
		Deadline *Date `json:"deadline"`
		Posted   *Date `json:"posted"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2026-12-31","posted":"2026-10-01T08:30:00+02:00"}`), &body))

	assert.True(t, body.Deadline.Equal(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, body.Posted.Equal(time.Date(2026, 10, 1, 6, 30, 0, 0, time.UTC)))
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"31/12/2026"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20261231`), &d))
}

func TestDateMarshal(t *testing.T) {
	out, err := json.Marshal(Date{Time: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2026-12-31T00:00:00Z"`, string(out))
}
