package production

import (
	"context"
	"io"
	"log/slog"
	"time"

	"production/internal/cache"
	"production/internal/storage"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClock returns a clock that advances one second per call.
func testClock() func() time.Time {
	t := fixedNow
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

// faultyStorage wraps a Storage and fails the configured operations.
type faultyStorage struct {
	storage.Storage
	getErr error
	setErr error
	sets   int
}

func newFaulty() *faultyStorage { return &faultyStorage{Storage: cache.NewMem()} }

func (f *faultyStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Storage.Get(ctx, key)
}

func (f *faultyStorage) Set(ctx context.Context, key string, value []byte) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	return f.Storage.Set(ctx, key, value)
}
