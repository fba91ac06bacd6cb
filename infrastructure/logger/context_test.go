package logger_test

import (
	"context"
	"testing"

	"github.com/elizabethzhu1/newsmapper/infrastructure/logger"
)

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	l := mustTestLogger(t)
	ctx := logger.WithContext(context.Background(), l)

	if got := logger.FromContext(ctx); got != l {
		t.Errorf("FromContext returned %v, want the stored logger", got)
	}
}

func TestFromContext_FallbackIsSharedAndUsable(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())
	if a == nil {
		t.Fatal("FromContext on empty context returned nil")
	}
	if a != b {
		t.Error("FromContext returned different fallback instances")
	}

	a.Debug("filtered")
	a.Warn("resolution fell back", logger.String("location", "Ruritania"))
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	l, err := logger.New(logger.Config{Level: "chatty", OutputPaths: []string{"stderr"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("still usable")
}

func mustTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	l, err := logger.New(logger.Config{Level: "warn", OutputPaths: []string{"stderr"}})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return l
}
