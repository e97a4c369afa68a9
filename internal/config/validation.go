// Package config provides configuration management for the Trackside engine.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
		return true
	default:
		return false
	}
}

// validateCrossField enforces constraints that span multiple fields
func validateCrossField(cfg *Config) error {
	if cfg.Racing.CloseHour <= cfg.Racing.OpenHour {
		return fmt.Errorf("racing.close_hour (%.1f) must be after racing.open_hour (%.1f)",
			cfg.Racing.CloseHour, cfg.Racing.OpenHour)
	}
	if len(cfg.Racing.OddsPool) != cfg.Racing.CompetitorsPerRace {
		return fmt.Errorf("racing.odds_pool has %d entries, want one per competitor (%d)",
			len(cfg.Racing.OddsPool), cfg.Racing.CompetitorsPerRace)
	}
	maxPool := 0
	for _, e := range cfg.Racing.OddsPool {
		if e.Numerator > maxPool {
			maxPool = e.Numerator
		}
	}
	if cfg.Racing.Outsider.Numerator <= maxPool {
		return fmt.Errorf("racing.outsider (%d/%d) must be longer odds than the standard pool",
			cfg.Racing.Outsider.Numerator, cfg.Racing.Outsider.Denominator)
	}
	if cfg.Database.Enabled {
		for field, val := range map[string]string{
			"host": cfg.Database.Host,
			"name": cfg.Database.Name,
			"user": cfg.Database.User,
		} {
			if val == "" {
				return fmt.Errorf("database.%s is required when database.enabled is true", field)
			}
		}
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s'", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(messages, "; "))
}
