package app

import (
	"context"
	"fmt"
	"time"

	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/timer"
	"trivia-quiz-service/internal/trivia"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// SessionRepository abstracts where live quiz sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	// Delete removes the session and closes it.
	Delete(sessionID string)
}

// QuestionSource supplies categories and questions.
type QuestionSource interface {
	FindCategory(ctx context.Context, id int) (domain.Category, bool)
	FetchQuestions(ctx context.Context, q trivia.Query) ([]domain.Question, error)
}

// ServiceConfig tunes the sessions a QuizService creates.
type ServiceConfig struct {
	DurationSeconds int
	Amount          int
	Scheduler       timer.Scheduler
	Now             func() time.Time
}

// QuizService contains the quiz use cases.
type QuizService struct {
	sessions SessionRepository
	source   QuestionSource
	cfg      ServiceConfig
	log      *zap.Logger
	newID    func() string
}

func NewQuizService(store SessionRepository, source QuestionSource, cfg ServiceConfig, log *zap.Logger) *QuizService {
	if cfg.DurationSeconds <= 0 {
		cfg.DurationSeconds = DefaultDurationSeconds
	}
	if cfg.Amount <= 0 {
		cfg.Amount = 10
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = timer.NewTickerScheduler()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{
		sessions: store,
		source:   source,
		cfg:      cfg,
		log:      log,
		newID:    func() string { return ulid.Make().String() },
	}
}

// Start validates the route parameters, fetches questions and starts a timed
// session. Invalid parameters yield ErrInvalidCategory or ErrInvalidDifficulty,
// an empty question set ErrNoQuestions, and fetch failures wrap ErrQuestionFetch.
func (s *QuizService) Start(ctx context.Context, categoryID int, difficulty string) (*Session, error) {
	level, ok := domain.ParseDifficulty(difficulty)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDifficulty, difficulty)
	}
	if _, ok := s.source.FindCategory(ctx, categoryID); !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidCategory, categoryID)
	}

	questions, err := s.source.FetchQuestions(ctx, trivia.Query{
		Amount:     s.cfg.Amount,
		CategoryID: categoryID,
		Difficulty: level,
	})
	if err != nil {
		return nil, err
	}

	id := s.newID()
	session, err := NewSession(questions, SessionConfig{
		ID:              id,
		DurationSeconds: s.cfg.DurationSeconds,
		CategoryID:      categoryID,
		Difficulty:      string(level),
		Scheduler:       s.cfg.Scheduler,
		Now:             s.cfg.Now,
		OnComplete:      s.logCompletion,
	})
	if err != nil {
		s.log.Info("no questions for quiz", zap.Int("category", categoryID), zap.String("difficulty", string(level)))
		return nil, err
	}

	s.sessions.Put(session)
	session.Start()
	s.log.Info("quiz session started",
		zap.String("session", id),
		zap.Int("category", categoryID),
		zap.String("difficulty", string(level)),
		zap.Int("questions", len(questions)),
	)
	return session, nil
}

// Get returns a live session.
func (s *QuizService) Get(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// View returns the presentation view of a session.
func (s *QuizService) View(sessionID string) (domain.SessionView, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return domain.SessionView{}, err
	}
	return session.View(), nil
}

// SubmitAnswer records an answer on the current question. applied is false
// when the answer was ignored (already answered or session completed).
func (s *QuizService) SubmitAnswer(sessionID, answer string) (view domain.SessionView, applied bool, err error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return domain.SessionView{}, false, err
	}
	applied = session.SubmitAnswer(answer)
	return session.View(), applied, nil
}

// Advance moves to the next question or completes the session.
func (s *QuizService) Advance(sessionID string) (domain.SessionView, bool, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return domain.SessionView{}, false, err
	}
	applied := session.Advance()
	return session.View(), applied, nil
}

// TogglePause pauses or resumes the session timer.
func (s *QuizService) TogglePause(sessionID string) (domain.SessionView, bool, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return domain.SessionView{}, false, err
	}
	applied := session.TogglePause()
	return session.View(), applied, nil
}

// Subscribe returns a channel that receives session views as they change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(sessionID string) (<-chan domain.SessionView, func(), error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Close tears a session down and forgets it.
func (s *QuizService) Close(sessionID string) error {
	if _, err := s.Get(sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	s.log.Debug("quiz session closed", zap.String("session", sessionID))
	return nil
}

func (s *QuizService) logCompletion(r domain.Result) {
	s.log.Info("quiz session completed",
		zap.String("session", r.SessionID),
		zap.Int("correct", r.Correct),
		zap.Int("total", r.Total),
		zap.Int("percentage", r.Percentage),
		zap.Int("time_taken", r.TimeTakenSeconds),
		zap.Bool("expired", r.Expired),
	)
}
