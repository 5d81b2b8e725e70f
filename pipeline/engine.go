// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/ragline/ai"
	"github.com/poiesic/ragline/chunking"
	"github.com/poiesic/ragline/core"
	"github.com/poiesic/ragline/embedding"
	"github.com/poiesic/ragline/ratelimit"
	"github.com/poiesic/ragline/storage"
	"github.com/poiesic/ragline/storage/memory"
)

// State names the lifecycle phase of an Engine.
type State string

const (
	StateCreated   State = "created"
	StateIngesting State = "ingesting"
	StateReady     State = "ready"
	StateQuerying  State = "querying"
	StateError     State = "error"
)

// Engine runs one pipeline: chunk, embed, store on ingest; embed, retrieve,
// generate on query. It owns its index and status exclusively.
type Engine struct {
	cfg       core.PipelineConfig
	chunker   chunking.Chunker
	gateway   *embedding.Gateway
	generator ai.Generator
	store     storage.VectorStore
	logger    *slog.Logger

	mu            sync.RWMutex
	state         State
	activeQueries int
	status        core.PipelineStatus
}

// Option configures an Engine.
type Option func(*Engine) error

// WithStore replaces the default in-memory index with another vector store,
// such as the persistent badger implementation.
func WithStore(store storage.VectorStore) Option {
	return func(e *Engine) error {
		if store != nil {
			e.store = store
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "pipeline-engine")
		return nil
	}
}

// WithChunkerOptions forwards options to the chunker constructor, e.g. a
// tiktoken counter instead of the character estimate.
func WithChunkerOptions(opts ...chunking.Option) Option {
	return func(e *Engine) error {
		chunker, err := chunking.New(e.cfg.Chunking, opts...)
		if err != nil {
			return err
		}
		e.chunker = chunker
		return nil
	}
}

// NewEngine builds an engine from a validated pipeline configuration.
// The limiter is shared process-wide; each engine gets its own gateway and
// store. The provider supplies both the embedder and the generator.
func NewEngine(cfg core.PipelineConfig, provider ai.Provider, limiter *ratelimit.Limiter, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidConfiguration, ErrProviderRequired)
	}
	if limiter == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidConfiguration, ErrLimiterRequired)
	}

	chunker, err := chunking.New(cfg.Chunking)
	if err != nil {
		return nil, err
	}

	gateway, err := embedding.NewGateway(provider.Embedder(), cfg.Embedding, limiter)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		chunker:   chunker,
		gateway:   gateway,
		generator: provider.Generator(),
		store:     memory.NewIndex(),
		logger:    slog.Default().With("component", "pipeline-engine"),
		state:     StateCreated,
	}

	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			gateway.Release()
			return nil, optErr
		}
	}

	return e, nil
}

// Ingest chunks and embeds documents and replaces the index contents
// atomically. A second concurrent ingest is rejected. Embedding-provider
// failures degrade to fallback vectors and record a warning; only chunking
// or storage failures move the engine to the error state.
func (e *Engine) Ingest(ctx context.Context, docs []*core.Document) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: %w", core.ErrPrecondition, core.ErrEmptyDocumentSet)
	}

	e.mu.Lock()
	if e.state == StateIngesting {
		e.mu.Unlock()
		return fmt.Errorf("%w: %w", core.ErrPrecondition, ErrIngestInProgress)
	}
	e.state = StateIngesting
	e.mu.Unlock()

	chunks, err := e.chunkAll(docs)
	if err != nil {
		e.fail(err)
		return err
	}

	e.gateway.ResetDegraded()

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := e.gateway.EmbedBatch(ctx, texts)
	if err != nil {
		e.fail(err)
		return err
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	// Build fully, replace atomically: no query observes a half-replaced index.
	if err := e.store.Replace(ctx, chunks); err != nil {
		err = fmt.Errorf("replacing index contents: %w", err)
		e.fail(err)
		return err
	}

	e.mu.Lock()
	e.state = StateReady
	e.status.IsReady = true
	e.status.DocumentsIngested = len(docs)
	e.status.LastActivity = time.Now()
	if e.gateway.Degraded() {
		e.status.Warnings = append(e.status.Warnings, embedding.FallbackWarning)
	}
	e.mu.Unlock()

	e.logger.Info("ingest complete",
		"documents", len(docs),
		"chunks", len(chunks),
		"degraded", e.gateway.Degraded())
	return nil
}

func (e *Engine) chunkAll(docs []*core.Document) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}
		docChunks, err := e.chunker.Chunk(doc)
		if err != nil {
			return nil, fmt.Errorf("chunking document %q: %w", doc.ID, err)
		}
		for i := range docChunks {
			chunks = append(chunks, &docChunks[i])
		}
	}
	return chunks, nil
}

// Query embeds the question, retrieves top-K context, and streams a generated
// answer. A pipeline that is not ready fails immediately with no partial
// work. Generation failures surface as one final human-readable fragment;
// the engine returns to ready either way.
func (e *Engine) Query(ctx context.Context, question string) (*Stream, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", core.ErrPrecondition)
	}

	if err := e.beginQuery(); err != nil {
		return nil, err
	}

	contextText, err := e.retrieveContext(ctx, question)
	if err != nil {
		e.endQuery()
		return nil, err
	}

	req := ai.GenerationRequest{
		Prompt:       buildPrompt(question, contextText),
		SystemPrompt: e.cfg.Generation.SystemPrompt,
		Temperature:  e.cfg.Generation.Temperature,
		MaxTokens:    e.cfg.Generation.MaxTokens,
	}

	stream := newStream(ctx)
	go func() {
		defer e.endQuery()
		defer stream.finish()

		genErr := e.generator.GenerateStream(stream.ctx, req, func(_ context.Context, fragment string) error {
			return stream.send(fragment)
		})
		if genErr != nil && stream.ctx.Err() == nil {
			// The consumer always terminates on a readable message, never a panic.
			_ = stream.send(fmt.Sprintf("generation failed: %v", genErr))
		}
	}()

	return stream, nil
}

func (e *Engine) beginQuery() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateReady && e.state != StateQuerying {
		return fmt.Errorf("%w: %w", core.ErrPrecondition, core.ErrPipelineNotReady)
	}
	e.state = StateQuerying
	e.activeQueries++
	e.status.LastActivity = time.Now()
	return nil
}

func (e *Engine) endQuery() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.activeQueries--
	if e.activeQueries == 0 && e.state == StateQuerying {
		e.state = StateReady
	}
}

// retrieveContext embeds the question and joins the top-K chunk contents
// with blank lines.
func (e *Engine) retrieveContext(ctx context.Context, question string) (string, error) {
	vector, err := e.gateway.EmbedQuery(ctx, question)
	if err != nil {
		return "", err
	}

	k := e.cfg.Retrieval.TopK
	if k <= 0 {
		k = core.DefaultTopK
	}
	chunks, err := e.store.TopK(ctx, vector, k)
	if err != nil {
		return "", fmt.Errorf("retrieving context: %w", err)
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	return strings.Join(contents, "\n\n"), nil
}

func buildPrompt(question, contextText string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following context, please answer the question.\n\nContext:\n")
	sb.WriteString(contextText)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\nAnswer:")
	return sb.String()
}

// Status returns a snapshot copy of the pipeline status.
func (e *Engine) Status() core.PipelineStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snapshot := e.status
	snapshot.Errors = append([]string(nil), e.status.Errors...)
	snapshot.Warnings = append([]string(nil), e.status.Warnings...)
	return snapshot
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Close releases the gateway pool and the vector store.
func (e *Engine) Close() error {
	e.gateway.Release()
	return e.store.Close()
}

func (e *Engine) fail(err error) {
	e.mu.Lock()
	e.state = StateError
	e.status.IsReady = false
	e.status.Errors = append(e.status.Errors, err.Error())
	e.status.LastActivity = time.Now()
	e.mu.Unlock()

	e.logger.Error("ingest failed", "err", err)
}
