package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsLoadAndValidate(t *testing.T) {
	cfg, err := LoadWithDefaults("does/not/exist.yaml")
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, 8, cfg.Racing.RacesPerDay)
	assert.Equal(t, 6, cfg.Racing.CompetitorsPerRace)
	assert.Len(t, cfg.Racing.OddsPool, 6)
	assert.Equal(t, 33, cfg.Racing.Outsider.Numerator)
	assert.Equal(t, 10, cfg.Wagering.MinStake)
	assert.Equal(t, 200, cfg.Wagering.MaxStake)
	assert.Equal(t, 1000, cfg.Loan.DebtTrigger)
	assert.Equal(t, 2000, cfg.Loan.Principal)
	assert.Equal(t, 2500, cfg.Loan.Repayment)
	assert.Equal(t, 3, cfg.Loan.GraceDays)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("does/not/exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_TRACKSIDE_SECRET", "hunter2")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  name: trackside
  environment: production
  log_level: warn
database:
  enabled: false
  password: ${TEST_TRACKSIDE_SECRET}
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadWithDefaults(path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg, err := LoadWithDefaults("does/not/exist.yaml")
	require.NoError(t, err)

	cfg.App.Environment = "qa"
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsInvertedHours(t *testing.T) {
	cfg, err := LoadWithDefaults("does/not/exist.yaml")
	require.NoError(t, err)

	cfg.Racing.OpenHour = 22
	cfg.Racing.CloseHour = 12
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsShortOutsider(t *testing.T) {
	cfg, err := LoadWithDefaults("does/not/exist.yaml")
	require.NoError(t, err)

	// The outsider must be longer odds than everything in the pool
	cfg.Racing.Outsider = OddsEntry{Numerator: 8, Denominator: 1}
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsPoolSizeMismatch(t *testing.T) {
	cfg, err := LoadWithDefaults("does/not/exist.yaml")
	require.NoError(t, err)

	cfg.Racing.OddsPool = cfg.Racing.OddsPool[:4]
	assert.Error(t, Validate(cfg))
}

func TestValidateRequiresDatabaseFieldsWhenEnabled(t *testing.T) {
	cfg, err := LoadWithDefaults("does/not/exist.yaml")
	require.NoError(t, err)

	cfg.Database.Enabled = true
	assert.Error(t, Validate(cfg))

	cfg.Database.Host = "localhost"
	cfg.Database.Name = "trackside"
	cfg.Database.User = "trackside"
	assert.NoError(t, Validate(cfg))
}

func TestSecretsOverlay(t *testing.T) {
	cfg, err := LoadWithDefaults("does/not/exist.yaml")
	require.NoError(t, err)

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "s3cret",
		WebhookURL:       "https://example.test/hook",
	})
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "https://example.test/hook", cfg.Notify.WebhookURL)

	// Empty fields leave existing values alone
	overlaySecretsOnConfig(cfg, &SecretsOverlay{})
	assert.Equal(t, "s3cret", cfg.Database.Password)
}
