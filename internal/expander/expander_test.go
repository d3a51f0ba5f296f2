package expander

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopics(t *testing.T) {
	topics, err := parseTopics(`["funny cats", "dog fails"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"funny cats", "dog fails"}, topics)
}

func TestParseTopicsStripsFences(t *testing.T) {
	raw := "```json\n[\"beginner workout\", \"home fitness\"]\n```"
	topics, err := parseTopics(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"beginner workout", "home fitness"}, topics)

	topics, err = parseTopics("```\n[\"one\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, topics)
}

func TestParseTopicsRejectsNonJSON(t *testing.T) {
	_, err := parseTopics("here are some great queries: cats, dogs")
	assert.Error(t, err)

	_, err = parseTopics("[]")
	assert.Error(t, err)

	_, err = parseTopics(`{"topics": ["a"]}`)
	assert.Error(t, err)
}

func TestExpandDisabledFallsBackToPrompt(t *testing.T) {
	c, err := New(context.Background(), "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.False(t, c.Enabled())

	topics := c.Expand(context.Background(), "funny animal videos", 4)
	assert.Equal(t, []string{"funny animal videos"}, topics)
}
