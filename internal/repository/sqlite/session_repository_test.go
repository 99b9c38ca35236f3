package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/bidouilles/multimaster/internal/models"
	"github.com/bidouilles/multimaster/internal/repository"
	"github.com/bidouilles/multimaster/internal/repository/sqlite"
	"github.com/bidouilles/multimaster/internal/testutil"
)

type SessionRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.SessionRepository
}

func (s *SessionRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionRepository(s.db)
}

func (s *SessionRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *SessionRepositorySuite) session(userID, userName string, score int, difficulty string, tables []int, playedAt time.Time) models.GameSession {
	return models.GameSession{
		UserID:              userID,
		UserName:            userName,
		Date:                playedAt,
		Score:               score,
		Difficulty:          difficulty,
		Tables:              tables,
		QuestionsAnswered:   10,
		CorrectAnswers:      score / 10,
		AverageResponseTime: 2.5,
	}
}

func (s *SessionRepositorySuite) TestInsertAndListByUser() {
	ctx := context.Background()
	now := time.Now().UTC()

	id, err := s.repo.Insert(ctx, s.session("user1", "Alice", 80, models.DifficultyMedium, []int{3, 7}, now))
	s.Require().NoError(err)
	s.Assert().Greater(id, int64(0))

	sessions, err := s.repo.ListByUser(ctx, "user1", models.SessionFilter{})
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)
	s.Assert().Equal("user1", sessions[0].UserID)
	s.Assert().Equal("Alice", sessions[0].UserName)
	s.Assert().Equal(80, sessions[0].Score)
	s.Assert().Equal([]int{3, 7}, sessions[0].Tables)
}

func (s *SessionRepositorySuite) TestListByUserOrdersByDateDesc() {
	ctx := context.Background()
	base := time.Now().UTC()

	_, err := s.repo.Insert(ctx, s.session("user1", "Alice", 50, models.DifficultyEasy, nil, base.Add(-2*time.Hour)))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.session("user1", "Alice", 90, models.DifficultyEasy, nil, base))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.session("user1", "Alice", 70, models.DifficultyEasy, nil, base.Add(-time.Hour)))
	s.Require().NoError(err)

	sessions, err := s.repo.ListByUser(ctx, "user1", models.SessionFilter{})
	s.Require().NoError(err)
	s.Require().Len(sessions, 3)
	s.Assert().Equal(90, sessions[0].Score)
	s.Assert().Equal(70, sessions[1].Score)
	s.Assert().Equal(50, sessions[2].Score)
}

func (s *SessionRepositorySuite) TestListByUserFilters() {
	ctx := context.Background()
	now := time.Now().UTC()

	for i, d := range []string{models.DifficultyEasy, models.DifficultyHard, models.DifficultyHard, models.DifficultyMedium} {
		_, err := s.repo.Insert(ctx, s.session("user1", "Alice", 60+i, d, nil, now.Add(time.Duration(i)*time.Minute)))
		s.Require().NoError(err)
	}
	_, err := s.repo.Insert(ctx, s.session("user2", "Bob", 100, models.DifficultyHard, nil, now))
	s.Require().NoError(err)

	hard, err := s.repo.ListByUser(ctx, "user1", models.SessionFilter{Difficulty: models.DifficultyHard})
	s.Require().NoError(err)
	s.Assert().Len(hard, 2)
	for _, sess := range hard {
		s.Assert().Equal(models.DifficultyHard, sess.Difficulty)
		s.Assert().Equal("user1", sess.UserID)
	}

	limited, err := s.repo.ListByUser(ctx, "user1", models.SessionFilter{Limit: 2})
	s.Require().NoError(err)
	s.Assert().Len(limited, 2)
}

func (s *SessionRepositorySuite) TestAverageScoreForTable() {
	ctx := context.Background()
	now := time.Now().UTC()

	// Two sessions covering table 7, one that does not.
	_, err := s.repo.Insert(ctx, s.session("user1", "Alice", 60, models.DifficultyMedium, []int{7}, now))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.session("user1", "Alice", 80, models.DifficultyMedium, []int{3, 7}, now))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.session("user1", "Alice", 10, models.DifficultyMedium, []int{5}, now))
	s.Require().NoError(err)

	avg, err := s.repo.AverageScoreForTable(ctx, "user1", 7)
	s.Require().NoError(err)
	s.Assert().InDelta(70.0, avg, 1e-9)
}

func (s *SessionRepositorySuite) TestAverageScoreForTableDoesNotMatchDigitPrefix() {
	ctx := context.Background()
	now := time.Now().UTC()

	// Table 13 must not count toward table 3.
	_, err := s.repo.Insert(ctx, s.session("user1", "Alice", 100, models.DifficultyMedium, []int{13}, now))
	s.Require().NoError(err)

	avg, err := s.repo.AverageScoreForTable(ctx, "user1", 3)
	s.Require().NoError(err)
	s.Assert().Equal(0.0, avg)
}

func (s *SessionRepositorySuite) TestAverageScoreForTableNoSessions() {
	avg, err := s.repo.AverageScoreForTable(context.Background(), "nobody", 7)
	s.Require().NoError(err)
	s.Assert().Equal(0.0, avg)
}

func (s *SessionRepositorySuite) TestTopPlayers() {
	ctx := context.Background()
	now := time.Now().UTC()

	// Alice: avg 90, best 100, 2 games. Bob: avg 50, best 50, 1 game.
	_, err := s.repo.Insert(ctx, s.session("user1", "Alice", 80, models.DifficultyMedium, nil, now))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.session("user1", "Alice", 100, models.DifficultyMedium, nil, now))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.session("user2", "Bob", 50, models.DifficultyMedium, nil, now))
	s.Require().NoError(err)

	rankings, err := s.repo.TopPlayers(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(rankings, 2)

	s.Assert().Equal("Alice", rankings[0].UserName)
	s.Assert().InDelta(90.0, rankings[0].AverageScore, 1e-9)
	s.Assert().Equal(100, rankings[0].BestScore)
	s.Assert().Equal(2, rankings[0].GamesPlayed)

	s.Assert().Equal("Bob", rankings[1].UserName)
	s.Assert().InDelta(50.0, rankings[1].AverageScore, 1e-9)
}

func (s *SessionRepositorySuite) TestTopPlayersLimit() {
	ctx := context.Background()
	now := time.Now().UTC()

	for i, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := s.repo.Insert(ctx, s.session(name, name, 50+10*i, models.DifficultyEasy, nil, now))
		s.Require().NoError(err)
	}

	rankings, err := s.repo.TopPlayers(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(rankings, 2)
	s.Assert().Equal("Carol", rankings[0].UserName)
	s.Assert().Equal("Bob", rankings[1].UserName)
}

func (s *SessionRepositorySuite) TestTopPlayersEmpty() {
	rankings, err := s.repo.TopPlayers(context.Background(), 10)
	s.Require().NoError(err)
	s.Assert().Empty(rankings)
}

func (s *SessionRepositorySuite) TestUserAggregates() {
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.repo.Insert(ctx, s.session("user1", "Alice", 60, models.DifficultyEasy, nil, now))
	s.Require().NoError(err)
	_, err = s.repo.Insert(ctx, s.session("user1", "Alice", 90, models.DifficultyEasy, nil, now))
	s.Require().NoError(err)

	games, best, avg, err := s.repo.UserAggregates(ctx, "user1")
	s.Require().NoError(err)
	s.Assert().Equal(2, games)
	s.Assert().Equal(90, best)
	s.Assert().InDelta(75.0, avg, 1e-9)
}

func (s *SessionRepositorySuite) TestUserAggregatesNoSessions() {
	games, best, avg, err := s.repo.UserAggregates(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Assert().Equal(0, games)
	s.Assert().Equal(0, best)
	s.Assert().Equal(0.0, avg)
}

func TestSessionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionRepositorySuite))
}
