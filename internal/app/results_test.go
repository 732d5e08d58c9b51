package app_test

import (
	"net/url"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
)

func TestParseResultsPage(t *testing.T) {
	q, _ := url.ParseQuery("score=8&total=10&percentage=80&time=135&category=History&difficulty=hard")
	page := app.ParseResultsPage(q)

	if page.Correct != 8 || page.Incorrect != 2 || page.Total != 10 {
		t.Fatalf("unexpected counts %+v", page)
	}
	if page.TimeText != "2m 15s" {
		t.Fatalf("unexpected time text %q", page.TimeText)
	}
	if page.Message != "Great job! You really know your stuff!" || page.Grade != "green" {
		t.Fatalf("unexpected message %q grade %q", page.Message, page.Grade)
	}
}

func TestParseResultsPageDefaults(t *testing.T) {
	page := app.ParseResultsPage(url.Values{"score": {"abc"}})

	if page.Correct != 0 || page.Total != 10 || page.Percentage != 0 || page.TimeTaken != 0 {
		t.Fatalf("unexpected defaults %+v", page)
	}
	if page.Category != "Quiz" || page.Difficulty != "Mixed" {
		t.Fatalf("unexpected labels %q %q", page.Category, page.Difficulty)
	}
	if page.Grade != "red" || page.TimeText != "0m 0s" {
		t.Fatalf("unexpected grade %q time %q", page.Grade, page.TimeText)
	}
}

func TestScoreMessageBoundaries(t *testing.T) {
	cases := map[int]string{
		100: "Excellent! You're a trivia master!",
		90:  "Excellent! You're a trivia master!",
		89:  "Great job! You really know your stuff!",
		70:  "Good work! You have solid knowledge!",
		60:  "Not bad! Keep learning and improving!",
		50:  "You're getting there! Practice makes perfect!",
		49:  "Keep studying! Every expert was once a beginner!",
	}
	for pct, want := range cases {
		if got := app.ScoreMessage(pct); got != want {
			t.Fatalf("ScoreMessage(%d) = %q, want %q", pct, got, want)
		}
	}
	if app.ScoreGrade(60) != "yellow" || app.ScoreGrade(79) != "yellow" {
		t.Fatal("60..79 must be yellow")
	}
}

func TestSampleLeaderboard(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	lb := app.SampleLeaderboard(now)

	if lb.Players != 5 || lb.BestPercentage != 95 || lb.AveragePercentage != 88 {
		t.Fatalf("unexpected summary %+v", lb)
	}
	if !lb.Entries[0].Timestamp.Equal(now.Add(-time.Hour)) {
		t.Fatalf("timestamps must be relative to now, got %v", lb.Entries[0].Timestamp)
	}
}
