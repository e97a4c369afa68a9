// Package config provides configuration management for the Trackside engine.
package config

import (
	"fmt"

	"github.com/yourusername/trackside/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Racing    RacingConfig    `mapstructure:"racing" validate:"required"`
	Wagering  WageringConfig  `mapstructure:"wagering" validate:"required"`
	Loan      LoanConfig      `mapstructure:"loan" validate:"required"`
	Clock     ClockConfig     `mapstructure:"clock" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// OddsEntry is one slot of the per-race odds pool
type OddsEntry struct {
	Numerator   int `mapstructure:"numerator" validate:"gte=0"`
	Denominator int `mapstructure:"denominator" validate:"gt=0"`
}

// RacingConfig controls daily card generation and resolution
type RacingConfig struct {
	RacesPerDay        int         `mapstructure:"races_per_day" validate:"required,gt=1"`
	CompetitorsPerRace int         `mapstructure:"competitors_per_race" validate:"required,gt=1"`
	OpenHour           float64     `mapstructure:"open_hour" validate:"gte=0,lt=24"`
	CloseHour          float64     `mapstructure:"close_hour" validate:"gt=0,lte=24"`
	OddsPool           []OddsEntry `mapstructure:"odds_pool" validate:"required,min=2,dive"`
	Outsider           OddsEntry   `mapstructure:"outsider" validate:"required"`
	NamePool           []string    `mapstructure:"name_pool" validate:"required,min=2"`
	ScheduleSeedSalt   int64       `mapstructure:"schedule_seed_salt"`
}

// WageringConfig controls stake bounds and placement side effects
type WageringConfig struct {
	MinStake          int      `mapstructure:"min_stake" validate:"required,gt=0"`
	MaxStake          int      `mapstructure:"max_stake" validate:"required,gtefield=MinStake"`
	SubstitutePenalty int      `mapstructure:"substitute_penalty" validate:"gte=0"`
	RumourSeedNPCs    []string `mapstructure:"rumour_seed_npcs" validate:"required,min=1"`
	AchievementTag    string   `mapstructure:"achievement_tag" validate:"required"`
}

// LoanConfig controls the debt escalation state machine
type LoanConfig struct {
	DebtTrigger int `mapstructure:"debt_trigger" validate:"required,gt=0"`
	Principal   int `mapstructure:"principal" validate:"required,gt=0"`
	Repayment   int `mapstructure:"repayment" validate:"required,gtefield=Principal"`
	GraceDays   int `mapstructure:"grace_days" validate:"required,gt=0"`
}

// ClockConfig maps wall time onto in-world days for the daemon
type ClockConfig struct {
	MinutesPerDay float64 `mapstructure:"minutes_per_day" validate:"required,gt=0"`
}

// DatabaseConfig represents the optional snapshot-store connection
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConns int    `mapstructure:"max_conns" validate:"omitempty,gt=0"`
}

// ServerConfig represents the HTTP status/metrics server
type ServerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// NotifyConfig represents the optional webhook reputation sink
type NotifyConfig struct {
	WebhookURL     string  `mapstructure:"webhook_url" validate:"omitempty,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
}

// SchedulerConfig controls the daemon's cron cadence
type SchedulerConfig struct {
	TickSpec     string `mapstructure:"tick_spec" validate:"required"`
	SnapshotSpec string `mapstructure:"snapshot_spec" validate:"required"`
}

// PoolEntries converts the configured odds pool into model odds pairs
func (rc *RacingConfig) PoolEntries() []models.OddsPair {
	pool := make([]models.OddsPair, len(rc.OddsPool))
	for i, e := range rc.OddsPool {
		pool[i] = models.OddsPair{Numerator: e.Numerator, Denominator: e.Denominator}
	}
	return pool
}

// OutsiderOdds returns the rare long-shot odds pair
func (rc *RacingConfig) OutsiderOdds() models.OddsPair {
	return models.OddsPair{Numerator: rc.Outsider.Numerator, Denominator: rc.Outsider.Denominator}
}

// GetDatabaseDSN builds a postgres connection string from the configuration
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
