package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/internal/database"
	"nse-option-sentry/internal/engine"
	"nse-option-sentry/internal/notifier"
	"nse-option-sentry/internal/storage"
	"nse-option-sentry/pkg/types"
)

// Scheduler runs the watchlist screen on bar boundaries. Each cycle
// screens the watchlist, suppresses suggestions already alerted within
// the cooldown window, notifies the rest and journals them.
type Scheduler struct {
	evaluator *engine.Evaluator
	notify    notifier.Interface
	journal   *database.Manager // nil when the journal is not configured
	state     *storage.StateManager
	config    types.ScanConfig
	watchlist []string

	mutex        sync.Mutex
	alertHistory map[string]time.Time
}

func NewScheduler(evaluator *engine.Evaluator, notify notifier.Interface, journal *database.Manager, state *storage.StateManager, config types.ScanConfig, watchlist []string) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	if config.AlertCooldown <= 0 {
		config.AlertCooldown = 30 * time.Minute
	}

	return &Scheduler{
		evaluator:    evaluator,
		notify:       notify,
		journal:      journal,
		state:        state,
		config:       config,
		watchlist:    watchlist,
		alertHistory: make(map[string]time.Time),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	zap.L().Info("scheduler starting",
		zap.Int("watchlist", len(s.watchlist)),
		zap.Duration("interval", s.config.Interval))

	nextBarTime := s.calculateNextBarTime()
	waitDuration := time.Until(nextBarTime)

	zap.L().Info("waiting for next bar boundary",
		zap.String("next", nextBarTime.Format("15:04:05")),
		zap.Duration("wait", waitDuration))

	select {
	case <-ctx.Done():
		return
	case <-time.After(waitDuration):
	}

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("scheduler stopped")
			return
		default:
			s.runScan(ctx)

			nextBarTime = s.calculateNextBarTime()
			waitDuration = time.Until(nextBarTime)

			zap.L().Info("next scan scheduled",
				zap.String("next", nextBarTime.Format("15:04:05")),
				zap.Duration("wait", waitDuration))

			select {
			case <-ctx.Done():
				zap.L().Info("scheduler stopped")
				return
			case <-time.After(waitDuration):
			}
		}
	}
}

func (s *Scheduler) runScan(ctx context.Context) {
	started := time.Now()
	expiry := NextExpiry(started, s.config.ExpiryWeekday)

	zap.L().Info("scan starting",
		zap.String("expiry", expiry.Format("2006-01-02")),
		zap.Any("cache", s.state.Stats()))

	results, err := s.evaluator.Screen(ctx, s.watchlist, expiry, s.config.Strategy, s.config.StrikeType, s.config.Limit)
	if err != nil {
		zap.L().Error("scan rejected", zap.Error(err))
		return
	}

	fresh := s.filterCooldown(results, started)

	zap.L().Info("scan finished",
		zap.Int("suggestions", len(results)),
		zap.Int("fresh", len(fresh)),
		zap.Duration("elapsed", time.Since(started)))

	if len(fresh) == 0 {
		return
	}

	if err := s.notify.SendBatch(fresh); err != nil {
		zap.L().Warn("notification failed", zap.Error(err))
	}

	if s.journal != nil {
		if err := s.journal.BatchSaveSignals(fresh, started); err != nil {
			zap.L().Warn("journal write failed", zap.Error(err))
		}
	}
}

// filterCooldown drops suggestions whose identical label and strategy
// were already alerted within the cooldown window, and records the
// ones that pass.
func (s *Scheduler) filterCooldown(results []engine.ScreenResult, now time.Time) []types.StrategySignal {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var fresh []types.StrategySignal
	for _, result := range results {
		key := fmt.Sprintf("%s|%s", result.Signal.Label, result.Signal.Strategy)
		if last, ok := s.alertHistory[key]; ok && now.Sub(last) < s.config.AlertCooldown {
			continue
		}
		s.alertHistory[key] = now
		fresh = append(fresh, result.Signal)
	}

	// Keep the history from growing without bound across a long run.
	for key, last := range s.alertHistory {
		if now.Sub(last) > 2*s.config.AlertCooldown {
			delete(s.alertHistory, key)
		}
	}
	return fresh
}

// calculateNextBarTime returns the next wall-clock instant aligned to
// the scan interval.
func (s *Scheduler) calculateNextBarTime() time.Time {
	now := time.Now()

	periodMinutes := int(s.config.Interval.Minutes())
	if periodMinutes <= 0 {
		periodMinutes = 5
	}

	currentMinute := now.Minute()
	nextAlignedMinute := ((currentMinute / periodMinutes) + 1) * periodMinutes

	if nextAlignedMinute >= 60 {
		next := now.Truncate(time.Hour).Add(time.Hour)
		return next
	}
	return time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), nextAlignedMinute, 0, 0, now.Location())
}

// NextExpiry returns the next weekly expiry date on or after today.
// Contracts expiring today are still tradeable, so today counts when
// it falls on the expiry weekday.
func NextExpiry(now time.Time, weekday time.Weekday) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	daysAhead := (int(weekday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, daysAhead)
}
