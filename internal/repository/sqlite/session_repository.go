package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.GameSession) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: user_id=%s, score=%d, difficulty=%s", s.UserID, s.Score, s.Difficulty)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO game_sessions (user_id, user_name, played_at, score, difficulty, tables, questions_answered, correct_answers, average_response_time)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.UserID, s.UserName, s.Date, s.Score, s.Difficulty, encodeTables(s.Tables), s.QuestionsAnswered, s.CorrectAnswers, s.AverageResponseTime)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get session id: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) ListByUser(ctx context.Context, userID string, filter models.SessionFilter) ([]models.GameSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: user_id=%s, difficulty=%s, limit=%d", userID, filter.Difficulty, filter.Limit)

	query := sqlBuilder.Select(
		"id", "user_id", "user_name", "played_at", "score", "difficulty",
		"tables", "questions_answered", "correct_answers", "average_response_time",
	).From("game_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("played_at DESC")

	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sessions []models.GameSession
	for rows.Next() {
		var s models.GameSession
		var tables string
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserName, &s.Date, &s.Score, &s.Difficulty,
			&tables, &s.QuestionsAnswered, &s.CorrectAnswers, &s.AverageResponseTime); err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		s.Tables = decodeTables(tables)
		sessions = append(sessions, s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) AverageScoreForTable(ctx context.Context, userID string, table int) (float64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("computing average score: user_id=%s, table=%d", userID, table)

	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
SELECT AVG(score)
FROM game_sessions
WHERE user_id = ? AND (',' || tables || ',') LIKE ?
`, userID, tableMembershipPattern(table)).Scan(&avg)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to compute average score: %v", err)
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

func (r *sessionRepository) TopPlayers(ctx context.Context, limit int) ([]models.UserRanking, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("computing top players: limit=%d", limit)

	query := `
SELECT user_name, AVG(score) AS average_score, MAX(score) AS best_score, COUNT(*) AS games_played
FROM game_sessions
GROUP BY user_id
ORDER BY average_score DESC
`
	args := []any{}
	if limit > 0 {
		query += "LIMIT ?\n"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to compute top players: %v", err)
		return nil, err
	}
	defer rows.Close()

	var rankings []models.UserRanking
	for rows.Next() {
		var rk models.UserRanking
		if err := rows.Scan(&rk.UserName, &rk.AverageScore, &rk.BestScore, &rk.GamesPlayed); err != nil {
			log.Error("failed to scan ranking row: %v", err)
			return nil, err
		}
		rankings = append(rankings, rk)
	}
	log.Debug("computed %d rankings", len(rankings))
	return rankings, rows.Err()
}

func (r *sessionRepository) UserAggregates(ctx context.Context, userID string) (int, int, float64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("computing user aggregates: user_id=%s", userID)

	var games int
	var best sql.NullInt64
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*), MAX(score), AVG(score)
FROM game_sessions
WHERE user_id = ?
`, userID).Scan(&games, &best, &avg)
	if err != nil {
		log.Error("failed to compute user aggregates: %v", err)
		return 0, 0, 0, err
	}
	return games, int(best.Int64), avg.Float64, nil
}
