// Package config provides configuration management for the Trackside engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// Environment variable placeholders in the YAML file (${VAR_NAME}) are
// expanded before parsing.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration, falling back entirely to defaults
// when no config file exists. Used by the CLI tools, which run fine without
// an on-disk config.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := newViper()
	setDefaults(v)

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRACKSIDE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults installs the reference venue constants: an 8-race card of
// 6 runners, the standard odds pool with a 33/1 outsider, and the loan
// shark's terms.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "trackside")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("racing.races_per_day", 8)
	v.SetDefault("racing.competitors_per_race", 6)
	v.SetDefault("racing.open_hour", 12.0)
	v.SetDefault("racing.close_hour", 22.0)
	v.SetDefault("racing.odds_pool", []map[string]interface{}{
		{"numerator": 2, "denominator": 1},
		{"numerator": 4, "denominator": 1},
		{"numerator": 4, "denominator": 1},
		{"numerator": 6, "denominator": 1},
		{"numerator": 6, "denominator": 1},
		{"numerator": 10, "denominator": 1},
	})
	v.SetDefault("racing.outsider", map[string]interface{}{
		"numerator": 33, "denominator": 1,
	})
	v.SetDefault("racing.name_pool", defaultNamePool)
	v.SetDefault("racing.schedule_seed_salt", int64(0x5452414b53494445))

	v.SetDefault("wagering.min_stake", 10)
	v.SetDefault("wagering.max_stake", 200)
	v.SetDefault("wagering.substitute_penalty", 5)
	v.SetDefault("wagering.rumour_seed_npcs", defaultRumourNPCs)
	v.SetDefault("wagering.achievement_tag", "track_regular")

	v.SetDefault("loan.debt_trigger", 1000)
	v.SetDefault("loan.principal", 2000)
	v.SetDefault("loan.repayment", 2500)
	v.SetDefault("loan.grace_days", 3)

	v.SetDefault("clock.minutes_per_day", 24.0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 4)

	v.SetDefault("server.port", 8080)

	v.SetDefault("notify.timeout_seconds", 10)
	v.SetDefault("notify.max_retries", 3)
	v.SetDefault("notify.rate_limit", 5.0)

	v.SetDefault("scheduler.tick_spec", "@every 1s")
	v.SetDefault("scheduler.snapshot_spec", "@every 30s")
}

// defaultNamePool is the finite runner name pool; the generator extends it
// with generation suffixes when a day's card needs more names.
var defaultNamePool = []string{
	"Brandy Snap", "Iron Tonic", "Mudlark", "Penny Whistle", "Gallows Humour",
	"Last Orders", "Tin Soldier", "Moth To Flame", "Cobble Stone", "Red Herring",
	"Night Porter", "Wooden Spoon", "Lamplighter", "False Start", "Bitter End",
	"Second Wind", "Fog Cutter", "Borrowed Time", "Quiet Riot", "Stray Dog",
	"Paper Crown", "Long Odds", "Chimney Sweep", "River Rat",
}

var defaultRumourNPCs = []string{
	"Old Maureen", "Tick Eddie", "The Furrier", "Barkeep Sloane",
}
