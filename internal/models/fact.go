package models

import "time"

// FactDifficulty tracks a user's performance on one multiplication fact.
// SuccessRate is a running mean over all attempts, 0-100.
type FactDifficulty struct {
	Table                int       `json:"table"`
	Multiplier           int       `json:"multiplier"`
	SuccessRate          float64   `json:"success_rate"`
	Attempts             int       `json:"attempts"`
	LastAttempt          time.Time `json:"last_attempt"`
	ConsecutiveSuccesses int       `json:"consecutive_successes"`
}

// DifficultyProfile owns the fact records of exactly one user.
type DifficultyProfile struct {
	UserID     string           `json:"user_id"`
	Facts      []FactDifficulty `json:"facts"`
	LastUpdate time.Time        `json:"last_update"`
}
