package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	StatsWorkerCount      int
	StatsQueueSize        int
	ClassicQuestionCount  int
	TimeAttackSeconds     int
	LeaderboardLimit      int
	RecentSessionsDefault int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:multimaster.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		StatsWorkerCount:      envIntOr("STATS_WORKER_COUNT", 1),
		StatsQueueSize:        envIntOr("STATS_QUEUE_SIZE", 32),
		ClassicQuestionCount:  envIntOr("CLASSIC_QUESTION_COUNT", 10),
		TimeAttackSeconds:     envIntOr("TIME_ATTACK_SECONDS", 60),
		LeaderboardLimit:      envIntOr("LEADERBOARD_LIMIT", 10),
		RecentSessionsDefault: envIntOr("RECENT_SESSIONS_DEFAULT", 10),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.StatsWorkerCount <= 0 {
		return fmt.Errorf("STATS_WORKER_COUNT must be positive, got %d", c.StatsWorkerCount)
	}
	if c.StatsQueueSize <= 0 {
		return fmt.Errorf("STATS_QUEUE_SIZE must be positive, got %d", c.StatsQueueSize)
	}
	if c.ClassicQuestionCount <= 0 {
		return fmt.Errorf("CLASSIC_QUESTION_COUNT must be positive, got %d", c.ClassicQuestionCount)
	}
	if c.TimeAttackSeconds <= 0 {
		return fmt.Errorf("TIME_ATTACK_SECONDS must be positive, got %d", c.TimeAttackSeconds)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
