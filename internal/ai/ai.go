// Package ai wraps the generative model used for receipt extraction and
// monthly insights.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("ai: empty response from model")

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("ai: no model configured")

// Blob is an inline attachment such as a receipt image.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Generator turns a prompt plus optional attachments into model text.
type Generator interface {
	Generate(ctx context.Context, prompt string, attachments ...Blob) (string, error)
}

// GeminiClient is a Generator backed by the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed Generator.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("ai: GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("ai: create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Generate sends prompt and attachments as one user turn and returns the
// model's text with any Markdown code fence removed.
func (g *GeminiClient) Generate(ctx context.Context, prompt string, attachments ...Blob) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	for _, a := range attachments {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: a.MIMEType,
				Data:     a.Data,
			},
		})
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: parts,
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("ai: generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	return CleanJSON(text), nil
}

// Disabled is the Generator used when no API key is configured. Every call
// fails with ErrNotConfigured.
type Disabled struct{}

// Generate implements Generator.
func (Disabled) Generate(context.Context, string, ...Blob) (string, error) {
	return "", ErrNotConfigured
}

// CleanJSON strips a ```json ... ``` wrapper if the model added one.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return strings.Trim(s, "`")
		}
		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}
