package sweeper

import (
	"context"
	"time"

	"github.com/ev4kov/SBP-BookingEngine/internal/domain"
)

// HoldRepository интерфейс репозитория холдов
type HoldRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Metrics интерфейс для записи метрик уборки
type Metrics interface {
	RecordHoldsSwept(count int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Sweeper фоновая уборка истёкших холдов. Нужна только для гигиены таблицы:
// корректность движка обеспечивает ленивое истечение в чтениях, и при
// упавшей уборке ничего не ломается.
type Sweeper struct {
	holdRepo HoldRepository
	metrics  Metrics
	logger   Logger
	interval time.Duration
}

// New создает новый экземпляр уборки
func New(holdRepo HoldRepository, metrics Metrics, logger Logger, intervalMinutes int) *Sweeper {
	if intervalMinutes <= 0 {
		intervalMinutes = domain.DefaultSweepIntervalMinutes
	}

	return &Sweeper{
		holdRepo: holdRepo,
		metrics:  metrics,
		logger:   logger,
		interval: time.Duration(intervalMinutes) * time.Minute,
	}
}

// Run запускает цикл уборки до отмены контекста.
// Вызывается в отдельной горутине из main.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started with interval %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep удаляет истёкшие холды одним проходом
func (s *Sweeper) sweep(ctx context.Context) {
	deleted, err := s.holdRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("Sweeper: failed to delete expired holds: %v", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("Sweeper: removed %d expired holds", deleted)
	}

	if s.metrics != nil {
		s.metrics.RecordHoldsSwept(deleted)
	}
}
