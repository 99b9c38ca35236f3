package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bidouilles/multimaster/internal/difficulty"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) EnsureProfile(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("ensuring profile: user_id=%s", userID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO difficulty_profiles (user_id, last_update)
VALUES (?, ?)
ON CONFLICT(user_id) DO NOTHING
`, userID, time.Now())
	if err != nil {
		log.Error("failed to ensure profile: %v", err)
	}
	return err
}

func (r *profileRepository) UpdateFact(ctx context.Context, userID string, table, multiplier int, mutate repository.FactMutator) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("updating fact: user_id=%s, fact=%dx%d", userID, table, multiplier)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		var f models.FactDifficulty
		var existing *models.FactDifficulty
		err := tx.QueryRowContext(ctx, `
SELECT fact_table, multiplier, success_rate, attempts, last_attempt, consecutive_successes
FROM fact_difficulties
WHERE user_id = ? AND fact_table = ? AND multiplier = ?
`, userID, table, multiplier).Scan(&f.Table, &f.Multiplier, &f.SuccessRate, &f.Attempts, &f.LastAttempt, &f.ConsecutiveSuccesses)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// First attempt at this fact.
		case err != nil:
			log.Error("failed to read fact: %v", err)
			return err
		default:
			existing = &f
		}

		updated, err := mutate(existing)
		if err != nil {
			return err
		}

		switch {
		case updated == nil && existing == nil:
			// Nothing stored and nothing to store.
		case updated == nil:
			if _, err := tx.ExecContext(ctx, `
DELETE FROM fact_difficulties
WHERE user_id = ? AND fact_table = ? AND multiplier = ?
`, userID, table, multiplier); err != nil {
				log.Error("failed to delete mastered fact: %v", err)
				return err
			}
			log.Debug("fact mastered and removed: %dx%d", table, multiplier)
		default:
			if _, err := tx.ExecContext(ctx, `
INSERT INTO fact_difficulties (user_id, fact_table, multiplier, success_rate, attempts, last_attempt, consecutive_successes)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, fact_table, multiplier) DO UPDATE SET
    success_rate = excluded.success_rate,
    attempts = excluded.attempts,
    last_attempt = excluded.last_attempt,
    consecutive_successes = excluded.consecutive_successes
`, userID, updated.Table, updated.Multiplier, updated.SuccessRate, updated.Attempts, updated.LastAttempt, updated.ConsecutiveSuccesses); err != nil {
				log.Error("failed to write fact: %v", err)
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO difficulty_profiles (user_id, last_update)
VALUES (?, ?)
ON CONFLICT(user_id) DO UPDATE SET last_update = excluded.last_update
`, userID, time.Now()); err != nil {
			log.Error("failed to touch profile: %v", err)
			return err
		}
		return nil
	})
}

func (r *profileRepository) Facts(ctx context.Context, userID string) ([]models.FactDifficulty, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing facts: user_id=%s", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT fact_table, multiplier, success_rate, attempts, last_attempt, consecutive_successes
FROM fact_difficulties
WHERE user_id = ?
ORDER BY fact_table, multiplier
`, userID)
	if err != nil {
		log.Error("failed to query facts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var facts []models.FactDifficulty
	for rows.Next() {
		var f models.FactDifficulty
		if err := rows.Scan(&f.Table, &f.Multiplier, &f.SuccessRate, &f.Attempts, &f.LastAttempt, &f.ConsecutiveSuccesses); err != nil {
			log.Error("failed to scan fact row: %v", err)
			return nil, err
		}
		facts = append(facts, f)
	}
	log.Debug("found %d facts", len(facts))
	return facts, rows.Err()
}

func (r *profileRepository) WeakFacts(ctx context.Context, userID string, limit int) ([]models.FactDifficulty, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("listing weak facts: user_id=%s, limit=%d", userID, limit)

	query := sqlBuilder.Select(
		"fact_table", "multiplier", "success_rate", "attempts", "last_attempt", "consecutive_successes",
	).From("fact_difficulties").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.GtOrEq{"attempts": difficulty.MinAttempts}).
		Where(squirrel.Or{
			squirrel.Lt{"success_rate": difficulty.MasterySuccessRate},
			squirrel.Lt{"consecutive_successes": difficulty.MasteryStreak},
		}).
		OrderBy("success_rate ASC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query weak facts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var facts []models.FactDifficulty
	for rows.Next() {
		var f models.FactDifficulty
		if err := rows.Scan(&f.Table, &f.Multiplier, &f.SuccessRate, &f.Attempts, &f.LastAttempt, &f.ConsecutiveSuccesses); err != nil {
			log.Error("failed to scan weak fact row: %v", err)
			return nil, err
		}
		facts = append(facts, f)
	}
	log.Debug("found %d weak facts", len(facts))
	return facts, rows.Err()
}
