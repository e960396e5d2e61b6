package sweeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubHoldRepo struct {
	mu      sync.Mutex
	deleted int64
	calls   int
}

func (s *stubHoldRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.deleted, nil
}

func (s *stubHoldRepo) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type countingMetrics struct {
	mu    sync.Mutex
	swept int64
}

func (m *countingMetrics) RecordHoldsSwept(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.swept += count
}

func (m *countingMetrics) total() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swept
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestSweepRecordsMetrics(t *testing.T) {
	repo := &stubHoldRepo{deleted: 3}
	metrics := &countingMetrics{}

	s := New(repo, metrics, nopLogger{}, 5)
	s.sweep(context.Background())

	assert.Equal(t, 1, repo.callCount())
	assert.Equal(t, int64(3), metrics.total())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := &stubHoldRepo{}

	s := New(repo, nil, nopLogger{}, 5)
	// Короткий интервал, чтобы тикер успел сработать
	s.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}

	assert.Greater(t, repo.callCount(), 0)
}
