package types

import "time"

// Config is the main configuration structure, loaded by pkg/config.
type Config struct {
	Log       LogConfig        `mapstructure:"log"`
	Redis     RedisConfig      `mapstructure:"redis"`
	Telegram  TelegramConfig   `mapstructure:"telegram"`
	Engine    EngineConfig     `mapstructure:"engine"`
	Scan      ScanConfig       `mapstructure:"scan"`
	Network   NetworkConfig    `mapstructure:"network"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Watchlist []string         `mapstructure:"watchlist"`
	Markets   []InstrumentSpec `mapstructure:"markets"`
}

// LogConfig controls the zap/lumberjack logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB before rotation
	MaxAge     int    `mapstructure:"max_age"`  // days
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// RedisConfig holds the optional bar-window backup store.
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelegramConfig holds the signal notification bot. Token and chat id
// come from config or environment, never from source.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// EngineConfig holds the evaluation policy knobs.
type EngineConfig struct {
	MinBars           int     `mapstructure:"min_bars"`           // indicator warm-up, default 35
	VolumeWindow      int     `mapstructure:"volume_window"`      // rolling average window, default 20
	VolumeMultiplier  float64 `mapstructure:"volume_multiplier"`  // gate, default 1.2
	BreakoutWindow    int     `mapstructure:"breakout_window"`    // rolling high/low channel, default 20
	MinPremium        float64 `mapstructure:"min_premium"`        // Min Investment liquidity floor, default 5
	ScreenConcurrency int     `mapstructure:"screen_concurrency"` // bounded worker pool, default 4
}

// ScanConfig drives the periodic watchlist scan.
type ScanConfig struct {
	Interval       time.Duration `mapstructure:"interval"`        // bar interval, default 5m
	Limit          int           `mapstructure:"limit"`           // suggestion count per scan
	Strategy       string        `mapstructure:"strategy"`        // empty = full roster
	StrikeType     string        `mapstructure:"strike_type"`     // ATM/ITM/OTM
	AlertCooldown  time.Duration `mapstructure:"alert_cooldown"`  // repeat-alert suppression
	ExpiryWeekday  time.Weekday  `mapstructure:"expiry_weekday"`  // weekly expiry day, default Thursday
}

// NetworkConfig configures outbound HTTP.
type NetworkConfig struct {
	Proxy   string        `mapstructure:"proxy"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig wraps the signal journal store.
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
}

// MySQLConfig holds the journal connection settings.
type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// Instrument kinds. Indices and single stocks hit different option
// chain endpoints and quote strikes on different steps.
const (
	InstrumentIndex = "index"
	InstrumentStock = "stock"
)

// InstrumentSpec describes one tradeable underlying: its quote symbol
// at the data source, its option-chain kind, and the strike quoting
// granularity (50 for broad indices, 10 for individual equities).
type InstrumentSpec struct {
	Symbol     string `mapstructure:"symbol"`      // e.g. NIFTY, RELIANCE
	DataSymbol string `mapstructure:"data_symbol"` // e.g. ^NSEI, RELIANCE.NS
	Kind       string `mapstructure:"kind"`        // "index" or "stock"
	StrikeStep int    `mapstructure:"strike_step"`
}
