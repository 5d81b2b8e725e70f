package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/ragline/ai"
)

// Generator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type Generator struct {
	// GenerateStreamFunc is called by GenerateStream if set.
	// If nil, uses default scripted behavior.
	GenerateStreamFunc func(ctx context.Context, req ai.GenerationRequest, fn ai.StreamFunc) error

	// Fragments is the scripted response, streamed one element per call to
	// the stream function. If empty, a single echo fragment is produced.
	Fragments []string

	// Err, when set, is returned before any fragment is streamed.
	Err error

	mu        sync.Mutex
	callCount int
}

// NewGenerator creates a mock generator with default scripted behavior.
func NewGenerator(fragments ...string) *Generator {
	return &Generator{Fragments: fragments}
}

// GenerateStream streams the scripted fragments, checking ctx between each.
func (m *Generator) GenerateStream(ctx context.Context, req ai.GenerationRequest, fn ai.StreamFunc) error {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.GenerateStreamFunc != nil {
		return m.GenerateStreamFunc(ctx, req, fn)
	}

	if m.Err != nil {
		return m.Err
	}

	fragments := m.Fragments
	if len(fragments) == 0 {
		// Echo the first prompt line so answers are traceable in tests.
		first, _, _ := strings.Cut(req.Prompt, "\n")
		fragments = []string{first}
	}

	for _, fragment := range fragments {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, fragment); err != nil {
			return err
		}
	}
	return nil
}

// CallCount returns the number of GenerateStream invocations.
func (m *Generator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
