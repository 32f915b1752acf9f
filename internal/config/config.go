package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required"`
	} `yaml:"telegram"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/advisor.db"`
	} `yaml:"database"`

	Market struct {
		// Universe is the full pre-market scan list; order is the tie-break
		// order for ranked opportunities.
		Universe []string `yaml:"universe"`
		// IntradayUniverse is the focused list scanned every 15 minutes.
		IntradayUniverse []string `yaml:"intraday_universe"`
		Benchmark        string   `yaml:"benchmark" default:"^NSEI"`
		ParkingSymbol    string   `yaml:"parking_symbol" default:"GOLDBEES.NS"`
	} `yaml:"market"`

	Scan struct {
		Workers      int           `yaml:"workers" default:"4" validate:"min=1"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"10s"`
		CycleTimeout time.Duration `yaml:"cycle_timeout" default:"10m"`
		MinScore     float64       `yaml:"min_score" default:"55"`
	} `yaml:"scan"`

	Schedule struct {
		Timezone      string `yaml:"timezone" default:"Asia/Kolkata"`
		PreMarketCron string `yaml:"pre_market_cron" default:"0 30 8 * * *"`
		IntradayCron  string `yaml:"intraday_cron" default:"0 */15 9-15 * * *"`
		MonthlyCron   string `yaml:"monthly_cron" default:"0 0 9 1 * *"`
		SnapshotCron  string `yaml:"snapshot_cron" default:"0 50 23 * * *"`
		EODCron       string `yaml:"eod_cron" default:"0 20 15 * * *"`
	} `yaml:"schedule"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Addr    string `yaml:"addr" default:":9102"`
	} `yaml:"metrics"`

	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"` // console or json
	} `yaml:"log"`
}

// defaultUniverse covers the NSE sector-wise market universe scanned pre-market.
var defaultUniverse = []string{
	// indices & ETFs
	"NIFTYBEES.NS", "BANKBEES.NS", "GOLDBEES.NS", "SILVERBEES.NS",
	// banking & finance
	"HDFCBANK", "ICICIBANK", "SBIN", "AXISBANK", "KOTAKBANK",
	"BAJFINANCE", "BAJAJFINSV", "JIOFIN", "PFC", "REC",
	// IT & tech
	"TCS", "INFY", "HCLTECH", "WIPRO", "TECHM", "LTIM",
	// auto & EV
	"TATAMOTORS", "M&M", "MARUTI", "BAJAJ-AUTO", "EICHERMOT", "HEROMOTOCO", "TVSMOTOR",
	// energy, oil & power
	"RELIANCE", "ONGC", "NTPC", "POWERGRID", "TATAPOWER", "ADANIGREEN", "BPCL", "COALINDIA",
	// consumer & FMCG
	"ITC", "HINDUNILVR", "NESTLEIND", "BRITANNIA", "TITAN",
	"VBL", "TRENT", "DMART", "ZOMATO", "ASIANPAINT",
	// pharma & healthcare
	"SUNPHARMA", "DRREDDY", "CIPLA", "APOLLOHOSP", "DIVISLAB",
	// metals & commodities
	"TATASTEEL", "JSWSTEEL", "HINDALCO", "VEDL",
	// infra, defence & railways
	"LT", "HAL", "BEL", "ADANIENT", "ADANIPORTS", "RVNL", "IRFC", "MAZDOCK",
}

// defaultIntradayUniverse is the focused list for fast intraday scanning.
var defaultIntradayUniverse = []string{
	"NIFTYBEES.NS", "BANKBEES.NS", "GOLDBEES.NS", "RELIANCE", "HDFCBANK",
	"ICICIBANK", "INFY", "TCS", "TATAMOTORS", "SBIN", "HAL", "BEL",
}

// Load reads config from a YAML file, applies defaults and environment
// variable overrides, then validates required fields.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Market.Universe) == 0 {
		cfg.Market.Universe = defaultUniverse
	}
	if len(cfg.Market.IntradayUniverse) == 0 {
		cfg.Market.IntradayUniverse = defaultIntradayUniverse
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("SCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Scan.Workers = n
		}
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	return nil
}
