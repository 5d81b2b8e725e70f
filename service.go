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

package ragline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/ragline/ai"
	"github.com/poiesic/ragline/chunking"
	"github.com/poiesic/ragline/core"
	"github.com/poiesic/ragline/pipeline"
	"github.com/poiesic/ragline/ratelimit"
)

const (
	defaultRateLimit  = 60
	defaultRateWindow = time.Minute
)

// Service is the caller-facing surface: a registry of pipeline engines plus
// the shared per-provider rate limiter. Each Service instance is
// self-contained, so multiple services can coexist in one process.
type Service struct {
	provider ai.Provider
	limiter  *ratelimit.Limiter
	logger   *slog.Logger

	mu      sync.RWMutex
	engines map[string]*pipeline.Engine
	closed  bool
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRateLimit replaces the default limiter (60 requests per minute).
func WithRateLimit(maxRequests int, window time.Duration) ServiceOption {
	return func(s *Service) {
		s.limiter = ratelimit.New(maxRequests, window)
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "service")
	}
}

// NewService creates a pipeline service backed by the given AI provider.
// All pipelines created by this service share one rate limiter, since they
// call the same external provider.
func NewService(provider ai.Provider, opts ...ServiceOption) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidConfiguration, pipeline.ErrProviderRequired)
	}

	s := &Service{
		provider: provider,
		limiter:  ratelimit.New(defaultRateLimit, defaultRateWindow),
		logger:   slog.Default().With("component", "service"),
		engines:  make(map[string]*pipeline.Engine),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreatePipeline validates the configuration, checks chunking/embedding
// compatibility, and registers a new engine. Returns the pipeline id.
// Configurations that validate but carry compatibility errors are rejected
// before any engine state exists.
func (s *Service) CreatePipeline(cfg core.PipelineConfig, opts ...pipeline.Option) (string, error) {
	if err := core.ValidateChunkingConfig(&cfg.Chunking); err != nil {
		return "", err
	}
	if err := core.ValidateEmbeddingConfig(&cfg.Embedding); err != nil {
		return "", err
	}

	result := chunking.Validate(cfg.Chunking, &cfg.Embedding)
	if !result.OK() {
		return "", fmt.Errorf("%w: %s", core.ErrInvalidConfiguration, result.Errors[0])
	}

	compat := core.ValidateCompatibility(cfg.Chunking, cfg.Embedding)
	if !compat.IsCompatible {
		return "", fmt.Errorf("%w: %s", core.ErrInvalidConfiguration, compat.Errors[0])
	}
	for _, warning := range compat.Warnings {
		s.logger.Warn("pipeline configuration warning", "warning", warning)
	}

	engine, err := pipeline.NewEngine(cfg, s.provider, s.limiter, opts...)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		engine.Close()
		return "", fmt.Errorf("%w: service is closed", core.ErrPrecondition)
	}
	s.engines[id] = engine

	s.logger.Info("pipeline created",
		"pipeline", id,
		"strategy", cfg.Chunking.Strategy,
		"model", cfg.Embedding.Model)
	return id, nil
}

// Ingest runs the ingest stage on the named pipeline.
func (s *Service) Ingest(ctx context.Context, pipelineID string, docs []*core.Document) error {
	engine, err := s.engine(pipelineID)
	if err != nil {
		return err
	}
	return engine.Ingest(ctx, docs)
}

// Query streams an answer for question from the named pipeline.
func (s *Service) Query(ctx context.Context, pipelineID, question string) (*pipeline.Stream, error) {
	engine, err := s.engine(pipelineID)
	if err != nil {
		return nil, err
	}
	return engine.Query(ctx, question)
}

// Evaluate scores retrieval quality on the named pipeline.
func (s *Service) Evaluate(ctx context.Context, pipelineID string, questions []string, scorer pipeline.Scorer) (*pipeline.EvaluationReport, error) {
	engine, err := s.engine(pipelineID)
	if err != nil {
		return nil, err
	}
	return engine.Evaluate(ctx, questions, scorer)
}

// Status returns a snapshot of the named pipeline's status.
func (s *Service) Status(pipelineID string) (core.PipelineStatus, error) {
	engine, err := s.engine(pipelineID)
	if err != nil {
		return core.PipelineStatus{}, err
	}
	return engine.Status(), nil
}

// Remove unregisters and closes the named pipeline.
func (s *Service) Remove(pipelineID string) error {
	s.mu.Lock()
	engine, ok := s.engines[pipelineID]
	if ok {
		delete(s.engines, pipelineID)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", core.ErrPipelineNotFound, pipelineID)
	}
	return engine.Close()
}

// Close closes every registered pipeline and the provider.
func (s *Service) Close() error {
	s.mu.Lock()
	engines := s.engines
	s.engines = make(map[string]*pipeline.Engine)
	s.closed = true
	s.mu.Unlock()

	var firstErr error
	for id, engine := range engines {
		if err := engine.Close(); err != nil && firstErr == nil {
			s.logger.Error("error closing pipeline", "pipeline", id, "err", err)
			firstErr = err
		}
	}
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Service) engine(pipelineID string) (*pipeline.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	engine, ok := s.engines[pipelineID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrPipelineNotFound, pipelineID)
	}
	return engine, nil
}
