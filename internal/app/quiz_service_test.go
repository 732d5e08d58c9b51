package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/timer"
	"trivia-quiz-service/internal/trivia"
)

type stubSource struct {
	categories []domain.Category
	questions  []domain.Question
	err        error
	lastQuery  trivia.Query
}

func (s *stubSource) FindCategory(_ context.Context, id int) (domain.Category, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (s *stubSource) FetchQuestions(_ context.Context, q trivia.Query) ([]domain.Question, error) {
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return s.questions, nil
}

func newTestService(source *stubSource, sched timer.Scheduler) (*app.QuizService, *memory.SessionStore) {
	store := memory.NewSessionStore()
	service := app.NewQuizService(store, source, app.ServiceConfig{
		DurationSeconds: 300,
		Amount:          10,
		Scheduler:       sched,
		Now:             func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	}, nil)
	return service, store
}

func historySource() *stubSource {
	return &stubSource{
		categories: []domain.Category{{ID: 23, Name: "History"}},
		questions:  sampleQuestions(10),
	}
}

func TestStartAndPlay(t *testing.T) {
	ctx := context.Background()
	source := historySource()
	service, store := newTestService(source, timer.NewManualScheduler())

	session, err := service.Start(ctx, 23, "medium")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected stored session, got %d", store.Len())
	}
	if source.lastQuery.Amount != 10 || source.lastQuery.CategoryID != 23 || source.lastQuery.Difficulty != domain.DifficultyMedium {
		t.Fatalf("unexpected query %+v", source.lastQuery)
	}

	view, applied, err := service.SubmitAnswer(session.ID(), "right")
	if err != nil || !applied {
		t.Fatalf("submit failed: applied=%v err=%v", applied, err)
	}
	if view.LiveScore != 1 {
		t.Fatalf("expected live score 1, got %d", view.LiveScore)
	}

	if _, applied, _ = service.SubmitAnswer(session.ID(), "wrong"); applied {
		t.Fatal("second answer must be ignored")
	}

	view, applied, err = service.Advance(session.ID())
	if err != nil || !applied || view.CurrentIndex != 1 {
		t.Fatalf("advance failed: %+v applied=%v err=%v", view, applied, err)
	}

	view, applied, err = service.TogglePause(session.ID())
	if err != nil || !applied || !view.Paused {
		t.Fatalf("pause failed: %+v applied=%v err=%v", view, applied, err)
	}
}

func TestStartValidatesParameters(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(historySource(), nil)

	if _, err := service.Start(ctx, 23, "extreme"); !errors.Is(err, domain.ErrInvalidDifficulty) {
		t.Fatalf("expected invalid difficulty, got %v", err)
	}
	if _, err := service.Start(ctx, 999, "easy"); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
}

func TestStartPropagatesFetchError(t *testing.T) {
	source := historySource()
	source.err = &trivia.StatusError{StatusCode: 503}
	service, store := newTestService(source, nil)

	_, err := service.Start(context.Background(), 23, "easy")
	if !errors.Is(err, domain.ErrQuestionFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("failed start must not store a session")
	}
}

func TestStartWithNoQuestions(t *testing.T) {
	source := historySource()
	source.questions = nil
	service, store := newTestService(source, nil)

	_, err := service.Start(context.Background(), 23, "hard")
	if !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected no questions, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("empty quiz must not store a session")
	}
}

func TestUnknownSession(t *testing.T) {
	service, _ := newTestService(historySource(), nil)

	if _, err := service.View("missing"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if _, _, err := service.SubmitAnswer("missing", "x"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
	if err := service.Close("missing"); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
}

func TestSubscribeReceivesTicks(t *testing.T) {
	sched := timer.NewManualScheduler()
	service, _ := newTestService(historySource(), sched)

	session, err := service.Start(context.Background(), 23, "easy")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	ch, cancel, err := service.Subscribe(session.ID())
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot
	sched.Tick(1)

	update := <-ch
	if update.TimeRemainingSeconds != 299 {
		t.Fatalf("expected 299s left, got %d", update.TimeRemainingSeconds)
	}
}

func TestCloseForgetsSession(t *testing.T) {
	sched := timer.NewManualScheduler()
	service, store := newTestService(historySource(), sched)

	session, err := service.Start(context.Background(), 23, "easy")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := service.Close(session.ID()); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if store.Len() != 0 || sched.Active() != 0 {
		t.Fatalf("expected nothing left, store=%d schedules=%d", store.Len(), sched.Active())
	}
	if _, err := service.Get(session.ID()); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session error, got %v", err)
	}
}
