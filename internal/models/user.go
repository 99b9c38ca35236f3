package models

import "time"

// User is the authenticated identity supplied by the outer application.
// The ID is an opaque stable identifier; DisplayName may be empty.
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	GamesPlayed  int       `json:"games_played"`
	BestScore    int       `json:"best_score"`
	AverageScore float64   `json:"average_score"`
	CreatedAt    time.Time `json:"created_at"`
}
