package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"nse-option-sentry/pkg/types"
)

// BarWindow holds the most recent bar series fetched for one
// instrument, together with the time it was captured.
type BarWindow struct {
	bars      []types.Bar
	fetchedAt time.Time
	mutex     sync.RWMutex
}

func NewBarWindow() *BarWindow {
	return &BarWindow{}
}

// Replace swaps in a freshly fetched series. The stored slice is a
// copy so callers may keep mutating theirs.
func (bw *BarWindow) Replace(bars []types.Bar, at time.Time) {
	bw.mutex.Lock()
	defer bw.mutex.Unlock()

	bw.bars = make([]types.Bar, len(bars))
	copy(bw.bars, bars)
	bw.fetchedAt = at
}

// Snapshot returns a copy of the stored series and its capture time.
func (bw *BarWindow) Snapshot() ([]types.Bar, time.Time) {
	bw.mutex.RLock()
	defer bw.mutex.RUnlock()

	if len(bw.bars) == 0 {
		return nil, time.Time{}
	}
	out := make([]types.Bar, len(bw.bars))
	copy(out, bw.bars)
	return out, bw.fetchedAt
}

func (bw *BarWindow) Length() int {
	bw.mutex.RLock()
	defer bw.mutex.RUnlock()
	return len(bw.bars)
}

// StateManager keeps the last good bar window per instrument in
// memory, with an optional Redis backup so a restart can pick up a
// recent window without waiting for the next fetch.
type StateManager struct {
	windows     map[string]*BarWindow
	mutex       sync.RWMutex
	redisClient *redis.Client
	useRedis    bool
}

func NewStateManager(redisConfig types.RedisConfig) *StateManager {
	sm := &StateManager{
		windows: make(map[string]*BarWindow),
	}

	if redisConfig.URL != "" {
		sm.redisClient = redis.NewClient(&redis.Options{
			Addr:     redisConfig.URL,
			Password: redisConfig.Password,
			DB:       redisConfig.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := sm.redisClient.Ping(ctx).Result(); err != nil {
			zap.L().Warn("redis unavailable, running memory-only", zap.Error(err))
			sm.useRedis = false
		} else {
			zap.L().Info("redis connected")
			sm.useRedis = true
		}
	} else {
		zap.L().Info("redis not configured, running memory-only")
		sm.useRedis = false
	}

	return sm
}

// StoreBars records a freshly fetched series for symbol.
func (sm *StateManager) StoreBars(symbol string, bars []types.Bar) {
	if len(bars) == 0 {
		return
	}

	sm.mutex.Lock()
	window := sm.windows[symbol]
	if window == nil {
		window = NewBarWindow()
		sm.windows[symbol] = window
	}
	sm.mutex.Unlock()

	now := time.Now()
	window.Replace(bars, now)

	if sm.useRedis {
		go sm.backupToRedis(symbol, bars, now)
	}
}

// GetBars returns the last stored series for symbol, falling back to
// the Redis backup when memory is cold. The second return is the
// capture time; zero when nothing is stored anywhere.
func (sm *StateManager) GetBars(symbol string) ([]types.Bar, time.Time) {
	sm.mutex.RLock()
	window := sm.windows[symbol]
	sm.mutex.RUnlock()

	if window != nil {
		if bars, at := window.Snapshot(); len(bars) > 0 {
			return bars, at
		}
	}

	if sm.useRedis {
		return sm.restoreFromRedis(symbol)
	}
	return nil, time.Time{}
}

func (sm *StateManager) GetAllSymbols() []string {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()

	symbols := make([]string, 0, len(sm.windows))
	for symbol := range sm.windows {
		symbols = append(symbols, symbol)
	}
	return symbols
}

type backupEnvelope struct {
	Bars      []types.Bar `json:"bars"`
	FetchedAt time.Time   `json:"fetched_at"`
}

func (sm *StateManager) backupToRedis(symbol string, bars []types.Bar, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf("nse:bars:%s", symbol)
	value, err := json.Marshal(backupEnvelope{Bars: bars, FetchedAt: at})
	if err != nil {
		zap.L().Warn("bar window serialization failed", zap.String("symbol", symbol), zap.Error(err))
		return
	}

	if err := sm.redisClient.Set(ctx, key, value, time.Hour).Err(); err != nil {
		zap.L().Warn("redis backup failed", zap.String("symbol", symbol), zap.Error(err))
	}
}

func (sm *StateManager) restoreFromRedis(symbol string) ([]types.Bar, time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf("nse:bars:%s", symbol)
	value, err := sm.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		return nil, time.Time{}
	}

	var envelope backupEnvelope
	if err := json.Unmarshal(value, &envelope); err != nil {
		zap.L().Warn("bar window restore failed", zap.String("symbol", symbol), zap.Error(err))
		return nil, time.Time{}
	}
	return envelope.Bars, envelope.FetchedAt
}

// Stats reports the cache state for the status log line.
func (sm *StateManager) Stats() map[string]interface{} {
	sm.mutex.RLock()
	symbols := len(sm.windows)
	sm.mutex.RUnlock()

	stats := map[string]interface{}{
		"redis_enabled":  sm.useRedis,
		"memory_symbols": symbols,
	}

	if sm.useRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		keys, err := sm.redisClient.Keys(ctx, "nse:bars:*").Result()
		if err == nil {
			stats["redis_keys"] = len(keys)
		} else {
			stats["redis_error"] = err.Error()
		}
	}

	return stats
}
