package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
	"nse-option-sentry/pkg/types"
)

// Load reads the yaml configuration. A config.local file takes
// priority over config; a missing file falls back to defaults so the
// sentry can run with zero configuration.
func Load() (*types.Config, error) {
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()

	viper.SetConfigName("config.local")
	if err := viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var config types.Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if len(config.Markets) == 0 {
		config.Markets = DefaultMarkets()
	}
	if len(config.Watchlist) == 0 {
		config.Watchlist = []string{"NIFTY", "BANKNIFTY", "SENSEX"}
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file_path", "logs")
	viper.SetDefault("log.max_size", 200)
	viper.SetDefault("log.max_age", 30)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.compress", false)
	viper.SetDefault("redis.url", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("telegram.bot_token", "")
	viper.SetDefault("telegram.chat_id", "")
	viper.SetDefault("engine.min_bars", 35)
	viper.SetDefault("engine.volume_window", 20)
	viper.SetDefault("engine.volume_multiplier", 1.2)
	viper.SetDefault("engine.breakout_window", 20)
	viper.SetDefault("engine.min_premium", 5.0)
	viper.SetDefault("engine.screen_concurrency", 4)
	viper.SetDefault("scan.interval", 5*time.Minute)
	viper.SetDefault("scan.limit", 5)
	viper.SetDefault("scan.strategy", "")
	viper.SetDefault("scan.strike_type", "ATM")
	viper.SetDefault("scan.alert_cooldown", 30*time.Minute)
	viper.SetDefault("scan.expiry_weekday", int(time.Thursday))
	viper.SetDefault("network.proxy", "")
	viper.SetDefault("network.timeout", 30*time.Second)
	viper.SetDefault("database.mysql.host", "")
	viper.SetDefault("database.mysql.port", 3306)
	viper.SetDefault("database.mysql.max_idle_conns", 5)
	viper.SetDefault("database.mysql.max_open_conns", 20)
}

// niftyFifty is the default stock universe for screening.
var niftyFifty = []string{
	"ADANIENT", "ADANIPORTS", "ASIANPAINT", "AXISBANK", "BAJAJ-AUTO",
	"BAJFINANCE", "BAJAJFINSV", "BPCL", "BHARTIARTL", "BRITANNIA",
	"CIPLA", "COALINDIA", "DIVISLAB", "DRREDDY", "EICHERMOT",
	"GRASIM", "HCLTECH", "HDFCBANK", "HDFCLIFE", "HEROMOTOCO",
	"HINDALCO", "HINDUNILVR", "ICICIBANK", "ITC", "INDUSINDBK",
	"INFY", "JSWSTEEL", "KOTAKBANK", "LT", "M&M",
	"MARUTI", "NTPC", "NESTLEIND", "ONGC", "POWERGRID",
	"RELIANCE", "SBILIFE", "SBIN", "SUNPHARMA", "TCS",
	"TATACONSUM", "TATAMOTORS", "TATASTEEL", "TECHM", "TITAN",
	"UPL", "ULTRACEMCO", "WIPRO",
}

// DefaultMarkets returns the built-in instrument roster: the three
// broad indices on a 50-point strike step plus the NIFTY 50 stocks on
// a 10-point step.
func DefaultMarkets() []types.InstrumentSpec {
	markets := []types.InstrumentSpec{
		{Symbol: "NIFTY", DataSymbol: "^NSEI", Kind: types.InstrumentIndex, StrikeStep: 50},
		{Symbol: "BANKNIFTY", DataSymbol: "^NSEBANK", Kind: types.InstrumentIndex, StrikeStep: 50},
		{Symbol: "SENSEX", DataSymbol: "^BSESN", Kind: types.InstrumentIndex, StrikeStep: 50},
	}
	for _, s := range niftyFifty {
		markets = append(markets, types.InstrumentSpec{
			Symbol:     s,
			DataSymbol: s + ".NS",
			Kind:       types.InstrumentStock,
			StrikeStep: 10,
		})
	}
	return markets
}
