package orchestrator

import (
	"fmt"
)

// Validator validates manager configuration
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates a manager configuration
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.Bus == nil {
		return fmt.Errorf("event bus is required")
	}
	if cfg.Storage == nil {
		return fmt.Errorf("snapshot storage is required")
	}
	if cfg.Scheduler == nil {
		return fmt.Errorf("scheduler is required")
	}
	if cfg.Metrics == nil {
		return fmt.Errorf("metrics collector is required")
	}
	if cfg.Logger == nil {
		return fmt.Errorf("logger is required")
	}

	if cfg.Columns < 1 || cfg.Rows < 1 {
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", cfg.Columns, cfg.Rows)
	}

	if cfg.Layout.CellWidth <= 0 {
		return fmt.Errorf("cell width must be positive")
	}
	if cfg.Layout.Spacing < 0 {
		return fmt.Errorf("cell spacing must not be negative")
	}

	if cfg.SettleInterval < 0 {
		return fmt.Errorf("settle interval must not be negative")
	}

	for i, k := range cfg.Inventory {
		if !k.Valid() {
			return fmt.Errorf("inventory template %d: invalid kind %s", i, k)
		}
	}

	return nil
}
