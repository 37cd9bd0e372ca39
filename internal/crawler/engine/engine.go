package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Processor defines how to crawl a single page.
// It returns the extracted data items (T).
type Processor[T any] interface {
	Process(ctx context.Context, url string) ([]T, error)
}

// Sink defines how to persist the data.
type Sink[T any] interface {
	Save(batch []T) error
}

// Config holds pipeline settings.
type Config struct {
	TargetURL string
	// KeepOnEmpty skips the save when a run extracts nothing, leaving the
	// previous snapshot in place.
	KeepOnEmpty bool
}

// Engine runs the fetch, parse and persist pipeline.
type Engine[T any] struct {
	config    Config
	processor Processor[T]
	sink      Sink[T]
	logger    *log.Logger
}

func NewEngine[T any](cfg Config, proc Processor[T], sink Sink[T], logger *log.Logger) *Engine[T] {
	return &Engine[T]{
		config:    cfg,
		processor: proc,
		sink:      sink,
		logger:    logger,
	}
}

// RunOnce performs one pipeline run. On error nothing is saved.
func (engine *Engine[T]) RunOnce(ctx context.Context) error {
	start := time.Now()
	engine.logger.Info("pipeline run started", "url", engine.config.TargetURL)

	data, err := engine.processor.Process(ctx, engine.config.TargetURL)
	if err != nil {
		return fmt.Errorf("process %s: %w", engine.config.TargetURL, err)
	}

	if len(data) == 0 {
		engine.logger.Warn("No products found.")
		if engine.config.KeepOnEmpty {
			engine.logger.Warn("keeping previous snapshot")
			return nil
		}
	}

	if err := engine.sink.Save(data); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	engine.logger.Info("pipeline run finished", "items", len(data), "took", time.Since(start))
	return nil
}

// Run is RunOnce for callers that cannot handle an error: failures are logged
// and swallowed.
func (engine *Engine[T]) Run(ctx context.Context) {
	if err := engine.RunOnce(ctx); err != nil {
		engine.logger.Error("Failed to fetch and save products", "err", err)
	}
}
