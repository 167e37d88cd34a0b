package cache

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilClientFallsBackToNop(t *testing.T) {
	c := NewRedisCache(nil, 0, zerolog.Nop())
	_, ok := c.(NopCache)
	require.True(t, ok)

	ctx := context.Background()
	c.SetJSON(ctx, KeyFacets, []string{"a"})
	var out []string
	assert.False(t, c.GetJSON(ctx, KeyFacets, &out))
	assert.Nil(t, out)
	c.DeletePrefix(ctx, KeyPrefixScholarships)
}

func TestConnectWithoutAddress(t *testing.T) {
	client, err := Connect(context.Background(), "", "", 0)
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestTopKey(t *testing.T) {
	assert.Equal(t, "scholarships:top:recent:6", TopKey("recent", 6))
}
