// Package config loads backtest configuration from YAML, with connection
// strings falling back to the environment (optionally seeded from a .env
// file).
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wearetvxq/stock-quant/internal/commission"
	"github.com/wearetvxq/stock-quant/internal/domain"
	"github.com/wearetvxq/stock-quant/internal/strategy"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Run      RunConfig       `yaml:"run"`
	Strategy strategy.Config `yaml:"strategy"`
	Fees     FeesConfig      `yaml:"fees"`
	Storage  StorageConfig   `yaml:"storage"`
}

// RunConfig describes the instrument and starting conditions.
type RunConfig struct {
	Symbol      string  `yaml:"symbol"`
	Market      string  `yaml:"market"`
	InitialCash float64 `yaml:"initial_cash"`
	BarsFile    string  `yaml:"bars_file"`
}

// StorageConfig holds connection strings. Empty values fall back to the
// POSTGRES_DSN / CLICKHOUSE_DSN environment variables; both may stay empty
// for in-memory runs.
type StorageConfig struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// FeesConfig overrides parts of the default fee schedules. Unset fields
// keep their defaults.
type FeesConfig struct {
	HK HKFeeConfig `yaml:"hk"`
	CN CNFeeConfig `yaml:"cn"`
	US USFeeConfig `yaml:"us"`
}

// HKFeeConfig overrides the Hong Kong schedule.
type HKFeeConfig struct {
	Rate             *float64 `yaml:"rate"`
	MinCommission    *float64 `yaml:"min_commission"`
	StampDuty        *float64 `yaml:"stamp_duty"`
	TransactionLevy  *float64 `yaml:"transaction_levy"`
	TransactionFee   *float64 `yaml:"transaction_fee"`
	TradingSystemFee *float64 `yaml:"trading_system_fee"`
	SettlementRate   *float64 `yaml:"settlement_rate"`
	MinSettlementFee *float64 `yaml:"min_settlement_fee"`
	MaxSettlementFee *float64 `yaml:"max_settlement_fee"`
	Slippage         *float64 `yaml:"slippage"`
}

// CNFeeConfig overrides the China A-share schedule.
type CNFeeConfig struct {
	Rate             *float64 `yaml:"rate"`
	MinCommission    *float64 `yaml:"min_commission"`
	StampDuty        *float64 `yaml:"stamp_duty"`
	TransactionLevy  *float64 `yaml:"transaction_levy"`
	TransactionFee   *float64 `yaml:"transaction_fee"`
	TradingSystemFee *float64 `yaml:"trading_system_fee"`
	SettlementRate   *float64 `yaml:"settlement_rate"`
	Slippage         *float64 `yaml:"slippage"`
}

// USFeeConfig overrides the US schedule.
type USFeeConfig struct {
	CommissionPerShare  *float64 `yaml:"commission_per_share"`
	MinCommission       *float64 `yaml:"min_commission"`
	MaxCommissionRate   *float64 `yaml:"max_commission_rate"`
	PlatformPerShare    *float64 `yaml:"platform_per_share"`
	MinPlatformFee      *float64 `yaml:"min_platform_fee"`
	MaxPlatformRate     *float64 `yaml:"max_platform_rate"`
	ActivityFeePerShare *float64 `yaml:"activity_fee_per_share"`
	MinActivityFee      *float64 `yaml:"min_activity_fee"`
	MaxActivityFee      *float64 `yaml:"max_activity_fee"`
	AuditFee            *float64 `yaml:"audit_fee"`
	Slippage            *float64 `yaml:"slippage"`
}

// LoadEnv loads a .env file if one exists. Missing files are not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads, env-resolves, and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the config without validating it. Useful for
// debugging or printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Storage.PostgresDSN == "" {
		c.Storage.PostgresDSN = os.Getenv("POSTGRES_DSN")
	}
	if c.Storage.ClickhouseDSN == "" {
		c.Storage.ClickhouseDSN = os.Getenv("CLICKHOUSE_DSN")
	}

	return &c, nil
}

// Validate checks the run and strategy sections. Fee overrides are not
// range-checked here; the commission models accept any schedule.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Run.Symbol == "" {
		return errors.New("run.symbol is required")
	}
	if c.Run.InitialCash <= 0 {
		return errors.New("run.initial_cash must be > 0")
	}
	if m := domain.Market(c.Run.Market); !m.Known() {
		// Unknown markets fall back to HK at runtime, but a config typo
		// should fail loudly instead.
		return fmt.Errorf("run.market %q is not one of HK, CN, US", c.Run.Market)
	}
	// Validate strategy params by constructing the strategy.
	if _, err := strategy.FromConfig(c.Strategy); err != nil {
		return fmt.Errorf("strategy config invalid: %w", err)
	}
	return nil
}

// Schedules applies the fee overrides on top of the default schedules.
func (c *Config) Schedules() commission.Schedules {
	s := commission.DefaultSchedules()

	applyIf(&s.HK.Rate, c.Fees.HK.Rate)
	applyIf(&s.HK.MinCommission, c.Fees.HK.MinCommission)
	applyIf(&s.HK.StampDuty, c.Fees.HK.StampDuty)
	applyIf(&s.HK.TransactionLevy, c.Fees.HK.TransactionLevy)
	applyIf(&s.HK.TransactionFee, c.Fees.HK.TransactionFee)
	applyIf(&s.HK.TradingSystemFee, c.Fees.HK.TradingSystemFee)
	applyIf(&s.HK.SettlementRate, c.Fees.HK.SettlementRate)
	applyIf(&s.HK.MinSettlementFee, c.Fees.HK.MinSettlementFee)
	applyIf(&s.HK.MaxSettlementFee, c.Fees.HK.MaxSettlementFee)
	applyIf(&s.HK.Slippage, c.Fees.HK.Slippage)

	applyIf(&s.CN.Rate, c.Fees.CN.Rate)
	applyIf(&s.CN.MinCommission, c.Fees.CN.MinCommission)
	applyIf(&s.CN.StampDuty, c.Fees.CN.StampDuty)
	applyIf(&s.CN.TransactionLevy, c.Fees.CN.TransactionLevy)
	applyIf(&s.CN.TransactionFee, c.Fees.CN.TransactionFee)
	applyIf(&s.CN.TradingSystemFee, c.Fees.CN.TradingSystemFee)
	applyIf(&s.CN.SettlementRate, c.Fees.CN.SettlementRate)
	applyIf(&s.CN.Slippage, c.Fees.CN.Slippage)

	applyIf(&s.US.CommissionPerShare, c.Fees.US.CommissionPerShare)
	applyIf(&s.US.MinCommission, c.Fees.US.MinCommission)
	applyIf(&s.US.MaxCommissionRate, c.Fees.US.MaxCommissionRate)
	applyIf(&s.US.PlatformPerShare, c.Fees.US.PlatformPerShare)
	applyIf(&s.US.MinPlatformFee, c.Fees.US.MinPlatformFee)
	applyIf(&s.US.MaxPlatformRate, c.Fees.US.MaxPlatformRate)
	applyIf(&s.US.ActivityFeePerShare, c.Fees.US.ActivityFeePerShare)
	applyIf(&s.US.MinActivityFee, c.Fees.US.MinActivityFee)
	applyIf(&s.US.MaxActivityFee, c.Fees.US.MaxActivityFee)
	applyIf(&s.US.AuditFee, c.Fees.US.AuditFee)
	applyIf(&s.US.Slippage, c.Fees.US.Slippage)

	return s
}

func applyIf(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
