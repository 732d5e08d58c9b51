package redis

import (
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/timer"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewSessionStore(newClient(mr), time.Minute)
	sched := timer.NewManualScheduler()
	session := newSession(t, "s1", time.Now, sched)
	session.Start()

	store.Put(session)
	if !mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get("quiz:session:s1"); got != string(domain.StatusInProgress) {
		t.Fatalf("expected in_progress marker, got %q", got)
	}

	store.Delete("s1")
	if mr.Exists("quiz:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
	if sched.Active() != 0 {
		t.Fatalf("expected tick schedule cancelled on delete")
	}
}

func TestSessionStoreSweep(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(newClient(mr), time.Minute)
	store.Put(newSession(t, "old", func() time.Time { return base }, nil))
	store.Put(newSession(t, "fresh", func() time.Time { return base.Add(5 * time.Minute) }, nil))

	if removed := store.Sweep(base.Add(6*time.Minute), 3*time.Minute); removed != 1 {
		t.Fatalf("expected 1 swept, got %d", removed)
	}
	if mr.Exists("quiz:session:old") {
		t.Fatalf("expected swept session key removed")
	}
	if !mr.Exists("quiz:session:fresh") {
		t.Fatalf("expected live session key kept")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatalf("expected fresh session kept")
	}
}

func newSession(t *testing.T, id string, now func() time.Time, sched timer.Scheduler) *app.Session {
	t.Helper()
	session, err := app.NewSession([]domain.Question{{
		ID:            "q1",
		Text:          "What is 2 + 2?",
		CorrectAnswer: "4",
		Options:       []string{"3", "4", "5"},
	}}, app.SessionConfig{ID: id, Now: now, Scheduler: sched})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
