package services

import (
	"context"
	"sync"

	"welth/internal/ai"
	"welth/internal/email"
)

// recordingSender captures every message and can be told to fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []email.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *recordingSender) messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.Message(nil), s.sent...)
}

// stubGenerator returns a canned response and records the attachments it saw.
type stubGenerator struct {
	mu          sync.Mutex
	text        string
	err         error
	prompts     []string
	attachments []ai.Blob
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, attachments ...ai.Blob) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.attachments = append(g.attachments, attachments...)
	return g.text, g.err
}
