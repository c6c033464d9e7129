package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Database.MaxConnections)
	assert.Equal(t, 4.0, cfg.Banking.RequestsPerSecond)
	assert.Equal(t, 15*time.Second, cfg.Banking.Timeout)
	assert.Equal(t, "openai", cfg.AI.Primary.Kind)
	assert.Equal(t, "ollama", cfg.AI.Fallback.Kind)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)

	assert.Equal(t, 5, cfg.Engine.MaxConcurrentTasks)
	assert.Equal(t, 15*time.Minute, cfg.Engine.HealthInterval)
	assert.Equal(t, 30*time.Minute, cfg.Engine.SyncInterval)
	assert.Equal(t, 5*time.Minute, cfg.Engine.WeeklyPollInterval)
	assert.Equal(t, 8, cfg.Engine.BriefingHour)
	assert.Equal(t, "admin_first", cfg.Engine.RepresentativePolicy)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://finbot:secret@db:5432/finbot")
	t.Setenv("AI_PRIMARY_API_KEY", "sk-from-env")
	t.Setenv("NOTIFIER_TOKEN", "bot-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://finbot:secret@db:5432/finbot", cfg.Database.URL)
	assert.Equal(t, "sk-from-env", cfg.AI.Primary.APIKey)
	assert.Equal(t, "bot-token", cfg.Notifier.Token)
}
