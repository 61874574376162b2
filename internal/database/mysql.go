package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"nse-option-sentry/pkg/types"
)

// Manager is the signal journal. It records every produced suggestion
// so scans can be reviewed after the fact; journal failures never
// block the scan itself.
type Manager struct {
	db *gorm.DB
}

// SignalRecord is one journaled strategy suggestion.
type SignalRecord struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Instrument      string          `gorm:"type:varchar(20);not null;index:idx_instrument_time" json:"instrument"`
	SignalTime      int64           `gorm:"not null;index:idx_instrument_time" json:"signal_time"`
	Strategy        string          `gorm:"type:varchar(20);not null" json:"strategy"`
	Direction       string          `gorm:"type:varchar(10);not null" json:"direction"`
	Strike          int             `gorm:"not null" json:"strike"`
	OptionType      string          `gorm:"type:varchar(4);not null" json:"option_type"`
	Entry           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"entry"`
	Target          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"target"`
	StopLoss        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"stop_loss"`
	PremiumBand     string          `gorm:"type:varchar(5);not null" json:"premium_band"`
	StrikeRationale string          `gorm:"type:varchar(30)" json:"strike_rationale"`
	Expiry          time.Time       `gorm:"type:date;not null" json:"expiry"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DailyStats aggregates per-instrument signal counts per trading day.
type DailyStats struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Instrument   string    `gorm:"type:varchar(20);not null;uniqueIndex:uk_instrument_date" json:"instrument"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:uk_instrument_date" json:"date"`
	TotalSignals int       `gorm:"default:0" json:"total_signals"`
	BuySignals   int       `gorm:"default:0" json:"buy_signals"`
	SellSignals  int       `gorm:"default:0" json:"sell_signals"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewManager(config types.MySQLConfig) (*Manager, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Username,
		config.Password,
		config.Host,
		config.Port,
		config.Database,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("obtain sql db: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	manager := &Manager{db: db}

	if err := manager.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrate journal schema: %w", err)
	}

	zap.L().Info("signal journal connected",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("database", config.Database))

	return manager, nil
}

func (m *Manager) AutoMigrate() error {
	return m.db.AutoMigrate(
		&SignalRecord{},
		&DailyStats{},
	)
}

// SaveSignal journals one suggestion and rolls it into the daily
// aggregate.
func (m *Manager) SaveSignal(signal types.StrategySignal, at time.Time) error {
	record := &SignalRecord{
		Instrument:      signal.Instrument,
		SignalTime:      at.Unix(),
		Strategy:        signal.Strategy,
		Direction:       string(signal.Direction),
		Strike:          signal.Strike,
		OptionType:      string(signal.OptionType),
		Entry:           signal.Entry,
		Target:          signal.Target,
		StopLoss:        signal.StopLoss,
		PremiumBand:     signal.PremiumBand,
		StrikeRationale: signal.StrikeRationale,
		Expiry:          signal.Expiry,
		CreatedAt:       time.Now(),
	}

	if err := m.db.Create(record).Error; err != nil {
		return err
	}
	return m.updateDailyStats(signal.Instrument, signal.Direction, at)
}

// BatchSaveSignals journals a full scan's output in one transaction.
func (m *Manager) BatchSaveSignals(signals []types.StrategySignal, at time.Time) error {
	if len(signals) == 0 {
		return nil
	}

	records := make([]SignalRecord, 0, len(signals))
	for _, signal := range signals {
		records = append(records, SignalRecord{
			Instrument:      signal.Instrument,
			SignalTime:      at.Unix(),
			Strategy:        signal.Strategy,
			Direction:       string(signal.Direction),
			Strike:          signal.Strike,
			OptionType:      string(signal.OptionType),
			Entry:           signal.Entry,
			Target:          signal.Target,
			StopLoss:        signal.StopLoss,
			PremiumBand:     signal.PremiumBand,
			StrikeRationale: signal.StrikeRationale,
			Expiry:          signal.Expiry,
			CreatedAt:       time.Now(),
		})
	}

	tx := m.db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := tx.CreateInBatches(records, 100).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("journal batch insert: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("journal batch commit: %w", err)
	}

	for _, signal := range signals {
		if err := m.updateDailyStats(signal.Instrument, signal.Direction, at); err != nil {
			zap.L().Warn("daily stats update failed",
				zap.String("instrument", signal.Instrument), zap.Error(err))
		}
	}

	zap.L().Debug("journaled scan output", zap.Int("count", len(signals)))
	return nil
}

func (m *Manager) updateDailyStats(instrument string, direction types.Direction, at time.Time) error {
	day := startOfDay(at)

	var stats DailyStats
	result := m.db.Where("instrument = ? AND date = ?", instrument, day).First(&stats)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		stats = DailyStats{
			Instrument:   instrument,
			Date:         day,
			TotalSignals: 1,
		}
		if direction.Bullish() {
			stats.BuySignals = 1
		} else if direction.Bearish() {
			stats.SellSignals = 1
		}
		return m.db.Create(&stats).Error
	} else if result.Error != nil {
		return result.Error
	}

	updates := map[string]interface{}{
		"total_signals": stats.TotalSignals + 1,
	}
	if direction.Bullish() {
		updates["buy_signals"] = stats.BuySignals + 1
	} else if direction.Bearish() {
		updates["sell_signals"] = stats.SellSignals + 1
	}
	return m.db.Model(&stats).Where("id = ?", stats.ID).Updates(updates).Error
}

// RecentSignals returns the latest journaled suggestions for an
// instrument, newest first.
func (m *Manager) RecentSignals(instrument string, limit int) ([]SignalRecord, error) {
	var records []SignalRecord
	err := m.db.Where("instrument = ?", instrument).
		Order("signal_time DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// StatsSince returns the per-day aggregates for the trailing period.
func (m *Manager) StatsSince(instrument string, days int) ([]DailyStats, error) {
	var stats []DailyStats
	startDate := startOfDay(time.Now().AddDate(0, 0, -days))

	err := m.db.Where("instrument = ? AND date >= ?", instrument, startDate).
		Order("date DESC").
		Find(&stats).Error
	return stats, err
}

// startOfDay buckets a timestamp into its calendar day in the
// timestamp's own location, matching how expiries are dated.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (m *Manager) Health() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
