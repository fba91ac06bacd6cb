package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
)

// ErrUnknownSource is returned for a source name no pipeline serves.
var ErrUnknownSource = errors.New("unknown source")

// Aggregator runs several pipelines concurrently and concatenates their
// output in registration order.
type Aggregator struct {
	pipelines []*Pipeline
	logger    logger.Logger
}

// NewAggregator creates an Aggregator over pipelines.
func NewAggregator(log logger.Logger, pipelines ...*Pipeline) *Aggregator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{pipelines: pipelines, logger: log}
}

// Sources returns the pipeline names in registration order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.pipelines))
	for i, p := range a.pipelines {
		names[i] = p.Name()
	}
	return names
}

// Run executes every pipeline. A failing source is logged and contributes
// nothing. The error is non-nil only when every source failed.
func (a *Aggregator) Run(ctx context.Context) ([]domain.ResolvedItem, error) {
	outputs := make([][]domain.ResolvedItem, len(a.pipelines))
	errs := make([]error, len(a.pipelines))

	var wg sync.WaitGroup
	for i, p := range a.pipelines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outputs[i], errs[i] = p.Run(ctx)
		}()
	}
	wg.Wait()

	total := 0
	failed := 0
	for i, err := range errs {
		if err != nil {
			failed++
			a.logger.Error("Source failed",
				logger.String("source", a.pipelines[i].Name()),
				logger.Error(err),
			)
			continue
		}
		total += len(outputs[i])
	}

	items := make([]domain.ResolvedItem, 0, total)
	for i, out := range outputs {
		if errs[i] == nil {
			items = append(items, out...)
		}
	}

	if failed > 0 && failed == len(a.pipelines) {
		return items, fmt.Errorf("all %d sources failed: %w", failed, errors.Join(errs...))
	}
	return items, nil
}

// RunSource executes the named pipeline only.
func (a *Aggregator) RunSource(ctx context.Context, name string) ([]domain.ResolvedItem, error) {
	for _, p := range a.pipelines {
		if p.Name() == name {
			return p.Run(ctx)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
}
