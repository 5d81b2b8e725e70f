package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/ragline/ai"
	"github.com/poiesic/ragline/core"
	"github.com/poiesic/ragline/ratelimit"
)

const defaultCallTimeout = 30 * time.Second

// Gateway batches text into an external embedding provider with rate
// limiting and graceful degradation. Once a provider call fails, the gateway
// turns sticky-degraded: every remaining text of the current ingest receives
// a deterministic fallback vector instead of another provider round trip.
type Gateway struct {
	embedder ai.Embedder
	cfg      core.EmbeddingConfig
	limiter  *ratelimit.Limiter
	pool     *ants.Pool
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	degraded bool
}

// Option configures a Gateway.
type Option func(*Gateway) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(g *Gateway) error {
		if size < 1 {
			size = 1
		}
		if g.pool != nil {
			g.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		g.pool = pool
		return nil
	}
}

// WithCallTimeout bounds each provider call. A timeout is treated the same
// as any other provider error. Default is 30s.
func WithCallTimeout(timeout time.Duration) Option {
	return func(g *Gateway) error {
		if timeout > 0 {
			g.timeout = timeout
		}
		return nil
	}
}

// NewGateway creates an embedding gateway for the given provider embedder.
// The limiter is shared process-wide across all pipelines using the same
// provider.
func NewGateway(embedder ai.Embedder, cfg core.EmbeddingConfig, limiter *ratelimit.Limiter, opts ...Option) (*Gateway, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if limiter == nil {
		return nil, ErrLimiterRequired
	}
	if err := core.ValidateEmbeddingConfig(&cfg); err != nil {
		return nil, err
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		embedder: embedder,
		cfg:      cfg,
		limiter:  limiter,
		pool:     pool,
		timeout:  defaultCallTimeout,
		logger:   slog.Default().With("component", "embedding-gateway"),
	}

	for _, opt := range opts {
		if optErr := opt(g); optErr != nil {
			g.Release()
			return nil, optErr
		}
	}

	return g, nil
}

// EmbedBatch embeds texts, one vector per input in input order. Texts are
// partitioned into batches of at most EmbeddingConfig.BatchSize, which run
// concurrently on the worker pool. Provider failures switch the gateway to
// fallback vectors; the returned error is reserved for precondition
// violations, never provider trouble.
func (g *Gateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: %w", core.ErrPrecondition, ErrNoTexts)
	}

	results := make([][]float32, len(texts))

	var wg sync.WaitGroup
	for start := 0; start < len(texts); start += g.cfg.BatchSize {
		end := start + g.cfg.BatchSize
		if end > len(texts) {
			end = len(texts)
		}

		wg.Add(1)
		task := func() {
			defer wg.Done()
			g.embedRange(ctx, texts, results, start, end)
		}
		if err := g.pool.Submit(task); err != nil {
			// Pool released or overloaded; run inline rather than drop work.
			task()
		}
	}
	wg.Wait()

	return results, nil
}

// EmbedQuery embeds a single query text with the same fallback protection as
// ingestion.
func (g *Gateway) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: %w", core.ErrPrecondition, ErrNoTexts)
	}

	if g.Degraded() {
		return fallbackVector(text, g.cfg.Dimensions), nil
	}

	if err := g.limiter.Acquire(ctx); err != nil {
		g.logger.Warn("rate limiter admission failed for query", "err", err)
		return fallbackVector(text, g.cfg.Dimensions), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vector, err := g.embedder.EmbedText(callCtx, text)
	if err != nil || len(vector) == 0 {
		g.degrade(err)
		return fallbackVector(text, g.cfg.Dimensions), nil
	}

	return core.NormalizeVector(vector), nil
}

// Degraded reports whether the gateway has switched to fallback vectors.
func (g *Gateway) Degraded() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.degraded
}

// ResetDegraded clears the sticky fallback state. Called at the start of
// each ingest so a recovered provider is retried.
func (g *Gateway) ResetDegraded() {
	g.mu.Lock()
	g.degraded = false
	g.mu.Unlock()
}

// Release releases the worker pool. The gateway should not be used after
// calling Release.
func (g *Gateway) Release() {
	if g.pool != nil {
		g.pool.Release()
	}
}

// embedRange embeds texts[start:end] into results[start:end]. Provider
// errors degrade the whole gateway; the failing batch and every batch that
// observes the degraded state get fallback vectors.
func (g *Gateway) embedRange(ctx context.Context, texts []string, results [][]float32, start, end int) {
	if g.Degraded() {
		g.fillFallback(texts, results, start, end)
		return
	}

	if err := g.limiter.Acquire(ctx); err != nil {
		g.degrade(err)
		g.fillFallback(texts, results, start, end)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	vectors, err := g.embedder.EmbedTexts(callCtx, texts[start:end])
	if err != nil {
		g.degrade(err)
		g.fillFallback(texts, results, start, end)
		return
	}
	if len(vectors) != end-start {
		g.degrade(fmt.Errorf("embedding result mismatch: expected %d, received %d", end-start, len(vectors)))
		g.fillFallback(texts, results, start, end)
		return
	}

	for i, vector := range vectors {
		results[start+i] = core.NormalizeVector(vector)
	}
}

func (g *Gateway) fillFallback(texts []string, results [][]float32, start, end int) {
	for i := start; i < end; i++ {
		results[i] = fallbackVector(texts[i], g.cfg.Dimensions)
	}
}

func (g *Gateway) degrade(err error) {
	g.mu.Lock()
	already := g.degraded
	g.degraded = true
	g.mu.Unlock()

	if !already {
		g.logger.Warn("embedding provider failed; switching to fallback vectors", "err", err)
	}
}
