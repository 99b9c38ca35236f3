package api

import (
	"github.com/bidouilles/multimaster/internal/services"
)

// Server holds the service dependencies of the HTTP API.
type Server struct {
	UserService       services.UserService
	DifficultyService services.DifficultyService
	StatsService      services.StatsService
	QuizService       services.QuizService

	LeaderboardLimit      int
	RecentSessionsDefault int
}
