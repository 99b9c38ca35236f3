package models

import "time"

// Game difficulties
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is one of the known difficulty levels.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// GameSession is one completed game. Sessions are append-only: never
// mutated or deleted after creation.
type GameSession struct {
	ID                  int64     `json:"id"`
	UserID              string    `json:"user_id"`
	UserName            string    `json:"user_name"`
	Date                time.Time `json:"date"`
	Score               int       `json:"score"` // 0-100
	Difficulty          string    `json:"difficulty"`
	Tables              []int     `json:"tables"`
	QuestionsAnswered   int       `json:"questions_answered"`
	CorrectAnswers      int       `json:"correct_answers"`
	AverageResponseTime float64   `json:"average_response_time"` // seconds
}

// SessionFilter narrows session queries. Zero values mean "no constraint".
type SessionFilter struct {
	Difficulty string
	Limit      int
}

// UserRanking is a derived leaderboard entry, computed from all sessions
// of one user. Never stored.
type UserRanking struct {
	UserName     string  `json:"user_name"`
	AverageScore float64 `json:"average_score"`
	BestScore    int     `json:"best_score"`
	GamesPlayed  int     `json:"games_played"`
}
