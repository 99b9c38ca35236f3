package difficulty

import (
	"fmt"
	"time"

	"github.com/bidouilles/multimaster/internal/models"
)

// Mastery thresholds. A fact needs MinAttempts observations before it is
// classified at all; below the success rate or streak threshold it counts
// as a weak point, above both it counts as mastered.
const (
	MinAttempts        = 3
	MasterySuccessRate = 85.0
	MasteryStreak      = 3
	WeakPointLimit     = 5
)

// ApplyAttempt folds one answer into a fact record. The success rate stays
// the arithmetic mean of per-attempt scores (100 correct, 0 incorrect); the
// streak increments on correct answers and resets to zero otherwise.
func ApplyAttempt(fact models.FactDifficulty, isCorrect bool, now time.Time) models.FactDifficulty {
	score := 0.0
	if isCorrect {
		score = 100.0
	}

	fact.SuccessRate = (fact.SuccessRate*float64(fact.Attempts) + score) / float64(fact.Attempts+1)
	fact.Attempts++
	fact.LastAttempt = now
	if isCorrect {
		fact.ConsecutiveSuccesses++
	} else {
		fact.ConsecutiveSuccesses = 0
	}
	return fact
}

// NewFact creates the record for a fact's first recorded attempt.
func NewFact(table, multiplier int, isCorrect bool, now time.Time) models.FactDifficulty {
	fact := models.FactDifficulty{
		Table:       table,
		Multiplier:  multiplier,
		LastAttempt: now,
		Attempts:    1,
	}
	if isCorrect {
		fact.SuccessRate = 100
		fact.ConsecutiveSuccesses = 1
	}
	return fact
}

// IsMastered reports whether a fact is considered learned. Mastered facts
// are dropped from the profile so they stop biasing question selection.
func IsMastered(fact models.FactDifficulty) bool {
	return fact.Attempts >= MinAttempts &&
		fact.SuccessRate >= MasterySuccessRate &&
		fact.ConsecutiveSuccesses >= MasteryStreak
}

// IsWeakPoint reports whether a fact should be drilled.
func IsWeakPoint(fact models.FactDifficulty) bool {
	return fact.Attempts >= MinAttempts &&
		(fact.SuccessRate < MasterySuccessRate || fact.ConsecutiveSuccesses < MasteryStreak)
}

// Key returns the "NxM" identifier used for probability maps.
func Key(table, multiplier int) string {
	return fmt.Sprintf("%dx%d", table, multiplier)
}

// CalculateProbability turns weak points into a selection distribution.
// Each fact is weighted by (100 - successRate), normalized to sum to 1.
// The result is empty when the total weight is zero; callers fall back to
// uniform random selection.
func CalculateProbability(facts []models.FactDifficulty) map[string]float64 {
	probabilities := make(map[string]float64)

	totalWeight := 0.0
	for _, f := range facts {
		totalWeight += 100 - f.SuccessRate
	}
	if totalWeight == 0 {
		return probabilities
	}

	for _, f := range facts {
		probabilities[Key(f.Table, f.Multiplier)] = (100 - f.SuccessRate) / totalWeight
	}
	return probabilities
}
