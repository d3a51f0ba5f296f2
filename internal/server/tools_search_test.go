package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSearchInput(t *testing.T, payload string) searchShortsInput {
	t.Helper()
	var input searchShortsInput
	require.NoError(t, json.Unmarshal([]byte(payload), &input))
	return input
}

func TestToSearchRequestDefaults(t *testing.T) {
	req := toSearchRequest(decodeSearchInput(t, `{"query":"lofi beats"}`))

	assert.Equal(t, "lofi beats", req.Query)
	assert.Equal(t, 50, req.MaxResults)
	assert.True(t, req.Optimize, "omitted optimize must default to expansion on")
	assert.Nil(t, req.Sources)
}

func TestToSearchRequestExplicitOptimizeFalse(t *testing.T) {
	req := toSearchRequest(decodeSearchInput(t, `{"query":"lofi beats","optimize":false}`))

	assert.False(t, req.Optimize)
}

func TestToSearchRequestClampsMaxResults(t *testing.T) {
	for _, payload := range []string{
		`{"query":"q","maxResults":0}`,
		`{"query":"q","maxResults":-3}`,
		`{"query":"q","maxResults":500}`,
	} {
		req := toSearchRequest(decodeSearchInput(t, payload))
		assert.Equal(t, 50, req.MaxResults, "payload %s", payload)
	}

	req := toSearchRequest(decodeSearchInput(t, `{"query":"q","maxResults":7,"sources":["tiktok"]}`))
	assert.Equal(t, 7, req.MaxResults)
	assert.Equal(t, []string{"tiktok"}, req.Sources)
}
