package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bidouilles/multimaster/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                  ":8080",
		DBPath:                "test.db",
		LogLevel:              "INFO",
		StatsWorkerCount:      1,
		StatsQueueSize:        32,
		ClassicQuestionCount:  10,
		TimeAttackSeconds:     60,
		LeaderboardLimit:      10,
		RecentSessionsDefault: 10,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_InvalidWorkerSettings(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero workers",
			mutate:        func(c *config.Config) { c.StatsWorkerCount = 0 },
			expectedError: "STATS_WORKER_COUNT",
		},
		{
			name:          "negative workers",
			mutate:        func(c *config.Config) { c.StatsWorkerCount = -1 },
			expectedError: "STATS_WORKER_COUNT",
		},
		{
			name:          "zero queue size",
			mutate:        func(c *config.Config) { c.StatsQueueSize = 0 },
			expectedError: "STATS_QUEUE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_InvalidQuizSettings(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero classic questions",
			mutate:        func(c *config.Config) { c.ClassicQuestionCount = 0 },
			expectedError: "CLASSIC_QUESTION_COUNT",
		},
		{
			name:          "zero time attack duration",
			mutate:        func(c *config.Config) { c.TimeAttackSeconds = 0 },
			expectedError: "TIME_ATTACK_SECONDS",
		},
		{
			name:          "negative time attack duration",
			mutate:        func(c *config.Config) { c.TimeAttackSeconds = -30 },
			expectedError: "TIME_ATTACK_SECONDS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ADDR", "DB_PATH", "LOG_LEVEL",
		"STATS_WORKER_COUNT", "STATS_QUEUE_SIZE",
		"CLASSIC_QUESTION_COUNT", "TIME_ATTACK_SECONDS",
		"LEADERBOARD_LIMIT", "RECENT_SESSIONS_DEFAULT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 10, cfg.ClassicQuestionCount)
	assert.Equal(t, 60, cfg.TimeAttackSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("TIME_ATTACK_SECONDS", "90")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 90, cfg.TimeAttackSeconds)
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	t.Setenv("STATS_WORKER_COUNT", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, 1, cfg.StatsWorkerCount)
}
