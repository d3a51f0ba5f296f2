// Package expander turns a free-text prompt into several short, diverse
// search phrases using Gemini. Expansion is advisory: on any failure the
// original prompt is used as the sole phrase.
package expander

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	model       = "gemini-2.0-flash"
	callTimeout = 20 * time.Second
)

const instructionTemplate = `You are a short-video search optimizer.
Given a user's prompt, generate %d different search queries that will help find diverse and relevant short videos.

Rules:
- Generate exactly %d search queries
- Each query should be 1-6 words
- Make queries diverse but related to the main topic
- Use popular search terms
- Focus on different aspects or angles of the topic
- Output ONLY a JSON array of strings, nothing else

Examples:

User: "I want to learn about cooking healthy meals"
You: ["healthy recipes", "quick meal prep", "easy cooking tips"]

User: "Show me funny animal videos"
You: ["funny cats", "dog fails", "cute animals"]

User: "I need workout routines for beginners"
You: ["beginner workout", "home fitness", "exercise tutorial"]`

// Client generates search topics with Gemini. A zero-credential client is
// valid and permanently disabled.
type Client struct {
	genai  *genai.Client
	logger *slog.Logger
}

// New creates an expander. An empty API key returns a disabled client; a
// disabled client echoes the prompt back from Expand.
func New(ctx context.Context, apiKey string, logger *slog.Logger) (*Client, error) {
	c := &Client{logger: logger}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	c.genai = client
	return c, nil
}

// Enabled reports whether query expansion is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.genai != nil
}

// Expand asks Gemini for numTopics related search phrases. On any failure
// (disabled, network error, unparsable response) it returns the prompt as
// the only phrase.
func (c *Client) Expand(ctx context.Context, prompt string, numTopics int) []string {
	if !c.Enabled() {
		return []string{prompt}
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	instruction := fmt.Sprintf(instructionTemplate, numTopics, numTopics)
	resp, err := c.genai.Models.GenerateContent(ctx, model,
		genai.Text(instruction+"\n\nUser: "+prompt+"\nYou:"), nil)
	if err != nil {
		c.logger.Error("gemini topic generation failed", "error", err)
		return []string{prompt}
	}

	topics, err := parseTopics(resp.Text())
	if err != nil {
		c.logger.Error("gemini returned unparsable topics", "error", err)
		return []string{prompt}
	}

	c.logger.Info("generated search topics", "prompt", prompt, "topics", topics)
	return topics
}

// parseTopics parses the model output as a JSON string array, tolerating
// surrounding markdown code fences.
func parseTopics(raw string) ([]string, error) {
	raw = stripFences(raw)

	var topics []string
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		return nil, err
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("empty topic array")
	}
	return topics, nil
}

// stripFences removes markdown code fences from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
