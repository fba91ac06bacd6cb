// Package scheduler runs the periodic headline cache refresh.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
	"github.com/elizabethzhu1/newsmapper/internal/domain"
	"github.com/robfig/cron/v3"
)

// DefaultRunTimeout bounds a single refresh.
const DefaultRunTimeout = 2 * time.Minute

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Refresher re-fetches headlines; *service.HeadlineService satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) ([]domain.ResolvedItem, error)
}

// RefreshScheduler triggers Refresh on a cron schedule. Runs never overlap.
type RefreshScheduler struct {
	cron       *cron.Cron
	spec       string
	refresher  Refresher
	runTimeout time.Duration
	logger     logger.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

// New validates spec and creates a RefreshScheduler. spec accepts the
// standard five fields and descriptors such as "@every 1h" or "@hourly".
func New(spec string, refresher Refresher, log logger.Logger) (*RefreshScheduler, error) {
	if log == nil {
		log = logger.NewNop()
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("parse refresh schedule %q: %w", spec, err)
	}

	cronLog := cronLogger{log: log}
	s := &RefreshScheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		spec:       spec,
		refresher:  refresher,
		runTimeout: DefaultRunTimeout,
		logger:     log,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	return s, nil
}

// Start starts the cron loop. When warm is
// true one refresh runs immediately in the background.
func (s *RefreshScheduler) Start(ctx context.Context, warm bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.started = true
	s.logger.Info("Refresh scheduler started", logger.String("schedule", s.spec))

	if warm {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.RunOnce()
		}()
	}
	return nil
}

// Stop stops the cron loop and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("Refresh scheduler stopped")
}

// RunOnce performs one refresh. Errors are logged.
func (s *RefreshScheduler) RunOnce() {
	parent := s.baseContext()
	ctx, cancel := context.WithTimeout(parent, s.runTimeout)
	defer cancel()

	start := time.Now()
	items, err := s.refresher.Refresh(ctx)
	if err != nil {
		s.logger.Error("Headline refresh failed",
			logger.Duration("duration", time.Since(start)),
			logger.Error(err),
		)
		return
	}
	s.logger.Info("Headline refresh completed",
		logger.Int("items", len(items)),
		logger.Duration("duration", time.Since(start)),
	)
}

func (s *RefreshScheduler) baseContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

// cronLogger routes cron's own logging through logger.Logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := append(kvFields(keysAndValues), logger.Error(err))
	l.log.Error("cron: "+msg, fields...)
}

func kvFields(keysAndValues []any) []logger.Field {
	fields := make([]logger.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields = append(fields, logger.Any(key, keysAndValues[i+1]))
	}
	return fields
}
