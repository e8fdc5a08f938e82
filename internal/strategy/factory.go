package strategy

import "errors"

// Strategy type constants.
const (
	TypeSMACross = "SMA_CROSS"
	TypeBuyHold  = "BUY_HOLD"
)

// Factory errors
var (
	ErrUnknownStrategyType = errors.New("unknown strategy type")
	ErrInvalidWindows      = errors.New("SMA_CROSS requires 0 < fast < slow")
	ErrInvalidShares       = errors.New("shares per signal must be > 0")
)

// Config selects and parameterizes a strategy.
type Config struct {
	StrategyType string `yaml:"type"`
	Shares       int64  `yaml:"shares"`

	// SMA_CROSS parameters
	FastWindow int `yaml:"fast_window"`
	SlowWindow int `yaml:"slow_window"`
}

// FromConfig creates a Strategy from a Config, validating required
// parameters per strategy type.
func FromConfig(cfg Config) (Strategy, error) {
	if cfg.Shares <= 0 {
		return nil, ErrInvalidShares
	}

	switch cfg.StrategyType {
	case TypeSMACross:
		if cfg.FastWindow <= 0 || cfg.FastWindow >= cfg.SlowWindow {
			return nil, ErrInvalidWindows
		}
		return NewSMACrossStrategy(cfg.FastWindow, cfg.SlowWindow, cfg.Shares), nil
	case TypeBuyHold:
		return NewBuyHoldStrategy(cfg.Shares), nil
	default:
		return nil, ErrUnknownStrategyType
	}
}
