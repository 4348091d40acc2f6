package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vetcare/clinic-api/internal/service/reminder"
	"github.com/vetcare/clinic-api/pkg/logger"
	"github.com/vetcare/clinic-api/pkg/metrics"
)

// ReminderWorker drives the reminder sweep on a fixed interval. Only one
// sweep runs at a time; when a cycle overruns the interval the next tick is
// skipped rather than queued.
type ReminderWorker struct {
	svc      *reminder.Service
	interval time.Duration
	metrics  *metrics.Metrics
	logger   *logger.Logger
	running  atomic.Bool
}

func NewReminderWorker(svc *reminder.Service, interval time.Duration, m *metrics.Metrics, logger *logger.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{
		svc:      svc,
		interval: interval,
		metrics:  m,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled. The first sweep runs immediately.
func (w *ReminderWorker) Start(ctx context.Context) {
	w.logger.Info("reminder worker started", "interval", w.interval.String())

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker shutting down")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ReminderWorker) runOnce(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		if w.metrics != nil {
			w.metrics.SweepsSkipped.Inc()
		}
		w.logger.Warn("previous sweep still running, skipping tick")
		return
	}

	go func() {
		defer w.running.Store(false)

		var timer *prometheus.Timer
		if w.metrics != nil {
			timer = prometheus.NewTimer(w.metrics.SweepDuration)
		}

		if err := w.svc.Sweep(ctx); err != nil {
			w.logger.Error(err, "reminder sweep failed")
		}

		if timer != nil {
			timer.ObserveDuration()
		}
	}()
}
