package services

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/bidouilles/multimaster/internal/countdown"
	"github.com/bidouilles/multimaster/internal/difficulty"
	"github.com/bidouilles/multimaster/internal/errors"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/models"
)

// Quiz modes
const (
	ModeClassic    = "classic"
	ModeTimeAttack = "timeAttack"
	ModeMemory     = "memory"
)

// Memory card kinds
const (
	MemoryCardQuestion = "question"
	MemoryCardAnswer   = "answer"
)

// memoryPairCount is the number of question/answer pairs on a memory board.
const memoryPairCount = 8

// QuizState is a snapshot of an active quiz.
type QuizState struct {
	Mode              string               `json:"mode"`
	Difficulty        string               `json:"difficulty"`
	Tables            []int                `json:"tables"`
	QuestionsAnswered int                  `json:"questions_answered"`
	CorrectAnswers    int                  `json:"correct_answers"`
	MatchedPairs      int                  `json:"matched_pairs,omitempty"`
	TotalPairs        int                  `json:"total_pairs,omitempty"`
	RemainingSeconds  float64              `json:"remaining_seconds,omitempty"`
	Question          *difficulty.Question `json:"question,omitempty"`
}

// QuizSummary is the final result of a quiz.
type QuizSummary struct {
	Score               int     `json:"score"`
	QuestionsAnswered   int     `json:"questions_answered"`
	CorrectAnswers      int     `json:"correct_answers"`
	AverageResponseTime float64 `json:"average_response_time"`
}

// AnswerResult reports the outcome of one submitted answer.
type AnswerResult struct {
	Correct        bool         `json:"correct"`
	ExpectedAnswer int          `json:"expected_answer"`
	Finished       bool         `json:"finished"`
	Summary        *QuizSummary `json:"summary,omitempty"`
}

// MemoryCard is one face-down card on a memory board. Question cards carry
// the fact, answer cards only the product; two cards match on equal value.
type MemoryCard struct {
	ID       int                  `json:"id"`
	Kind     string               `json:"kind"`
	Value    int                  `json:"value"`
	Question *difficulty.Question `json:"question,omitempty"`
}

// MatchResult reports the outcome of flipping a pair of memory cards.
type MatchResult struct {
	Matched      bool         `json:"matched"`
	MatchedPairs int          `json:"matched_pairs"`
	Finished     bool         `json:"finished"`
	Summary      *QuizSummary `json:"summary,omitempty"`
}

// QuizService runs quiz games: question selection biased toward weak
// points, per-answer difficulty tracking, and session persistence at the
// end. One active quiz per user, held in memory.
type QuizService interface {
	Start(ctx context.Context, user *models.User, mode, difficultyLevel string, tables []int) (*QuizState, error)
	NextQuestion(ctx context.Context, userID string) (*difficulty.Question, error)
	SubmitAnswer(ctx context.Context, userID string, answer int, responseTime float64) (*AnswerResult, error)
	Board(ctx context.Context, userID string) ([]MemoryCard, error)
	MatchCards(ctx context.Context, userID string, firstID, secondID int) (*MatchResult, error)
	End(ctx context.Context, userID string) (*QuizSummary, error)
	State(ctx context.Context, userID string) (*QuizState, error)
	Shutdown()
}

type activeQuiz struct {
	user          *models.User
	mode          string
	difficulty    string
	tables        []int
	gen           *difficulty.Generator
	current       *difficulty.Question
	prev          *difficulty.Question
	answered      int
	correct       int
	totalResponse float64
	board         []MemoryCard
	matched       map[int]bool
	cd            *countdown.Countdown
}

type quizService struct {
	difficultySvc DifficultyService
	statsSvc      StatsService

	classicQuestions   int
	timeAttackDuration time.Duration

	mu      sync.Mutex
	quizzes map[string]*activeQuiz
}

// NewQuizService creates a new QuizService.
func NewQuizService(difficultySvc DifficultyService, statsSvc StatsService, classicQuestions, timeAttackSeconds int) QuizService {
	if classicQuestions <= 0 {
		classicQuestions = 10
	}
	if timeAttackSeconds <= 0 {
		timeAttackSeconds = 60
	}
	return &quizService{
		difficultySvc:      difficultySvc,
		statsSvc:           statsSvc,
		classicQuestions:   classicQuestions,
		timeAttackDuration: time.Duration(timeAttackSeconds) * time.Second,
		quizzes:            make(map[string]*activeQuiz),
	}
}

func (s *quizService) Start(ctx context.Context, user *models.User, mode, difficultyLevel string, tables []int) (*QuizState, error) {
	log := logger.FromContext(ctx)

	if user == nil || user.ID == "" {
		return nil, errors.NewUnauthorizedError("must be authenticated to start a quiz")
	}
	if mode != ModeClassic && mode != ModeTimeAttack && mode != ModeMemory {
		return nil, errors.NewValidationError("mode", "must be 'classic', 'timeAttack', or 'memory'")
	}
	if !models.ValidDifficulty(difficultyLevel) {
		return nil, errors.NewValidationError("difficulty", "must be 'easy', 'medium', or 'hard'")
	}
	for _, t := range tables {
		if t < 1 || t > 10 {
			return nil, errors.NewValidationError("tables", "entries must be between 1 and 10")
		}
	}

	if err := s.difficultySvc.EnsureProfile(ctx, user.ID); err != nil {
		log.Warn("failed to ensure profile at quiz start: %v", err)
	}

	quiz := &activeQuiz{
		user:       user,
		mode:       mode,
		difficulty: difficultyLevel,
		tables:     tables,
		gen:        difficulty.NewGenerator(rand.NewSource(time.Now().UnixNano())),
	}
	if mode == ModeMemory {
		quiz.board = buildMemoryBoard(quiz.gen, tables)
		quiz.matched = make(map[int]bool, len(quiz.board))
	}
	// Memory runs against the same countdown as time attack.
	if mode == ModeTimeAttack || mode == ModeMemory {
		userID := user.ID
		quiz.cd = countdown.New(s.timeAttackDuration, time.Second, nil, func() {
			s.expire(userID, quiz)
		})
	}

	s.mu.Lock()
	old := s.quizzes[user.ID]
	s.quizzes[user.ID] = quiz
	state := s.snapshot(quiz)
	s.mu.Unlock()

	// Stop outside the lock: the old countdown may be firing expire, which
	// takes the lock.
	if old != nil && old.cd != nil {
		old.cd.Stop()
	}
	if quiz.cd != nil {
		quiz.cd.Start(context.Background())
	}

	log.Info("quiz started: user_id=%s, mode=%s, difficulty=%s, tables=%v", user.ID, mode, difficultyLevel, tables)
	return state, nil
}

func (s *quizService) NextQuestion(ctx context.Context, userID string) (*difficulty.Question, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	quiz, ok := s.quizzes[userID]
	s.mu.Unlock()
	if !ok {
		return nil, errors.NewNotFoundError("quiz", userID)
	}
	if quiz.mode == ModeMemory {
		return nil, errors.NewBadRequestError("memory quizzes are played by matching cards")
	}

	// Failure to load weak points degrades to uniform selection.
	weakPoints, err := s.difficultySvc.GetWeakPoints(ctx, userID)
	if err != nil {
		log.Warn("failed to load weak points for question: %v", err)
		weakPoints = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.quizzes[userID]; !ok || current != quiz {
		return nil, errors.NewNotFoundError("quiz", userID)
	}
	q := quiz.gen.Next(weakPoints, quiz.tables, quiz.prev)
	quiz.current = &q
	log.Debug("next question: user_id=%s, question=%dx%d", userID, q.Table, q.Multiplier)
	return &q, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, userID string, answer int, responseTime float64) (*AnswerResult, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	quiz, ok := s.quizzes[userID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("quiz", userID)
	}
	if quiz.mode == ModeMemory {
		s.mu.Unlock()
		return nil, errors.NewBadRequestError("memory quizzes are played by matching cards")
	}
	if quiz.current == nil {
		s.mu.Unlock()
		return nil, errors.NewBadRequestError("no question pending, fetch the next question first")
	}

	q := *quiz.current
	correct := answer == q.Answer()
	quiz.answered++
	if correct {
		quiz.correct++
	}
	if responseTime > 0 {
		quiz.totalResponse += responseTime
	}
	quiz.prev = quiz.current
	quiz.current = nil
	finished := quiz.mode == ModeClassic && quiz.answered >= s.classicQuestions
	s.mu.Unlock()

	// Tracking failure is non-fatal: the quiz goes on without guaranteed
	// durability of this one update.
	if err := s.difficultySvc.RecordAttempt(ctx, userID, q.Table, q.Multiplier, correct); err != nil {
		log.Warn("failed to record attempt: %v", err)
	}

	result := &AnswerResult{
		Correct:        correct,
		ExpectedAnswer: q.Answer(),
		Finished:       finished,
	}
	if finished {
		// A concurrent restart may have replaced the quiz; the
		// replacement is left alone and no summary is produced.
		if summary, err := s.endQuiz(ctx, userID, quiz); err == nil {
			result.Summary = summary
		}
	}
	return result, nil
}

func (s *quizService) End(ctx context.Context, userID string) (*QuizSummary, error) {
	return s.endQuiz(ctx, userID, nil)
}

// endQuiz removes and finishes a quiz. When quiz is non-nil it must still be
// the user's current quiz; a stale pointer means a newer Start replaced it.
func (s *quizService) endQuiz(ctx context.Context, userID string, quiz *activeQuiz) (*QuizSummary, error) {
	s.mu.Lock()
	current, ok := s.quizzes[userID]
	if !ok || (quiz != nil && current != quiz) {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("quiz", userID)
	}
	delete(s.quizzes, userID)
	s.mu.Unlock()

	if current.cd != nil {
		current.cd.Stop()
	}
	return s.finish(ctx, current), nil
}

// buildMemoryBoard lays out a shuffled board of question/answer card pairs
// over distinct facts from tables.
func buildMemoryBoard(gen *difficulty.Generator, tables []int) []MemoryCard {
	questions := gen.DistinctQuestions(tables, memoryPairCount)

	board := make([]MemoryCard, 0, 2*len(questions))
	for i := range questions {
		q := questions[i]
		board = append(board,
			MemoryCard{Kind: MemoryCardAnswer, Value: q.Answer()},
			MemoryCard{Kind: MemoryCardQuestion, Value: q.Answer(), Question: &q},
		)
	}
	gen.Shuffle(len(board), func(i, j int) {
		board[i], board[j] = board[j], board[i]
	})
	for i := range board {
		board[i].ID = i
	}
	return board
}

func (s *quizService) Board(ctx context.Context, userID string) ([]MemoryCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.quizzes[userID]
	if !ok {
		return nil, errors.NewNotFoundError("quiz", userID)
	}
	if quiz.mode != ModeMemory {
		return nil, errors.NewBadRequestError("only memory quizzes have a board")
	}

	board := make([]MemoryCard, len(quiz.board))
	copy(board, quiz.board)
	return board, nil
}

func (s *quizService) MatchCards(ctx context.Context, userID string, firstID, secondID int) (*MatchResult, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	quiz, ok := s.quizzes[userID]
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewNotFoundError("quiz", userID)
	}
	if quiz.mode != ModeMemory {
		s.mu.Unlock()
		return nil, errors.NewBadRequestError("only memory quizzes match cards")
	}
	if firstID == secondID {
		s.mu.Unlock()
		return nil, errors.NewValidationError("cards", "must flip two different cards")
	}
	if firstID < 0 || firstID >= len(quiz.board) || secondID < 0 || secondID >= len(quiz.board) {
		s.mu.Unlock()
		return nil, errors.NewValidationError("cards", "unknown card id")
	}
	if quiz.matched[firstID] || quiz.matched[secondID] {
		s.mu.Unlock()
		return nil, errors.NewBadRequestError("card already matched")
	}

	quiz.answered++
	matched := quiz.board[firstID].Value == quiz.board[secondID].Value
	if matched {
		quiz.matched[firstID] = true
		quiz.matched[secondID] = true
		quiz.correct++
	}
	pairs := len(quiz.matched) / 2
	finished := len(quiz.matched) == len(quiz.board)
	s.mu.Unlock()

	log.Debug("memory match: user_id=%s, cards=%d/%d, matched=%t", userID, firstID, secondID, matched)

	result := &MatchResult{
		Matched:      matched,
		MatchedPairs: pairs,
		Finished:     finished,
	}
	if finished {
		if summary, err := s.endQuiz(ctx, userID, quiz); err == nil {
			result.Summary = summary
		}
	}
	return result, nil
}

// expire ends a timed quiz when its countdown fires. It runs on the
// countdown goroutine, so it must not stop the countdown itself. A quiz
// replaced by a newer Start is not the map's current entry anymore and is
// left alone.
func (s *quizService) expire(userID string, quiz *activeQuiz) {
	s.mu.Lock()
	ok := s.quizzes[userID] == quiz
	if ok {
		delete(s.quizzes, userID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	logger.Default().Info("time attack expired: user_id=%s", userID)
	s.finish(context.Background(), quiz)
}

func (s *quizService) finish(ctx context.Context, quiz *activeQuiz) *QuizSummary {
	log := logger.FromContext(ctx)

	score := 0
	avgResponse := 0.0
	switch {
	case quiz.mode == ModeMemory:
		// Memory scores by board coverage, not answer accuracy.
		if len(quiz.board) > 0 {
			score = int(math.Round(100 * float64(len(quiz.matched)) / float64(len(quiz.board))))
		}
	case quiz.answered > 0:
		score = int(math.Round(100 * float64(quiz.correct) / float64(quiz.answered)))
		avgResponse = quiz.totalResponse / float64(quiz.answered)
	}

	summary := &QuizSummary{
		Score:               score,
		QuestionsAnswered:   quiz.answered,
		CorrectAnswers:      quiz.correct,
		AverageResponseTime: avgResponse,
	}

	err := s.statsSvc.SaveSession(ctx, quiz.user, SessionInput{
		Score:               score,
		Difficulty:          quiz.difficulty,
		Tables:              quiz.tables,
		QuestionsAnswered:   quiz.answered,
		CorrectAnswers:      quiz.correct,
		AverageResponseTime: avgResponse,
	})
	if err != nil {
		// The quiz result is still reported to the player.
		log.Error("failed to save quiz session: %v", err)
	}

	log.Info("quiz finished: user_id=%s, score=%d, answered=%d", quiz.user.ID, score, quiz.answered)
	return summary
}

func (s *quizService) State(ctx context.Context, userID string) (*QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.quizzes[userID]
	if !ok {
		return nil, errors.NewNotFoundError("quiz", userID)
	}
	return s.snapshot(quiz), nil
}

func (s *quizService) snapshot(quiz *activeQuiz) *QuizState {
	state := &QuizState{
		Mode:              quiz.mode,
		Difficulty:        quiz.difficulty,
		Tables:            quiz.tables,
		QuestionsAnswered: quiz.answered,
		CorrectAnswers:    quiz.correct,
		Question:          quiz.current,
	}
	if quiz.mode == ModeMemory {
		state.MatchedPairs = len(quiz.matched) / 2
		state.TotalPairs = len(quiz.board) / 2
	}
	if quiz.cd != nil {
		state.RemainingSeconds = quiz.cd.Remaining().Seconds()
	}
	return state
}

// Shutdown stops the countdowns of all active quizzes without saving them.
func (s *quizService) Shutdown() {
	s.mu.Lock()
	quizzes := make([]*activeQuiz, 0, len(s.quizzes))
	for id, quiz := range s.quizzes {
		quizzes = append(quizzes, quiz)
		delete(s.quizzes, id)
	}
	s.mu.Unlock()

	for _, quiz := range quizzes {
		if quiz.cd != nil {
			quiz.cd.Stop()
		}
	}
}
