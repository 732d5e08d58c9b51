package app

import (
	"time"

	"trivia-quiz-service/internal/domain"
)

// Leaderboard is the leaderboard page data. Entries are demonstration data;
// nothing records real scores.
type Leaderboard struct {
	Entries           []domain.LeaderboardEntry `json:"entries"`
	Players           int                       `json:"players"`
	BestPercentage    int                       `json:"best_percentage"`
	AveragePercentage int                       `json:"average_percentage"`
}

// SampleLeaderboard returns the demonstration leaderboard relative to now.
func SampleLeaderboard(now time.Time) Leaderboard {
	entries := []domain.LeaderboardEntry{
		{ID: "1", PlayerName: "Quiz Master", Score: 95, TotalQuestions: 10, Percentage: 95, Category: "General Knowledge", Difficulty: "hard", TimeTaken: 245, Timestamp: now.Add(-1 * time.Hour)},
		{ID: "2", PlayerName: "Brainiac", Score: 90, TotalQuestions: 10, Percentage: 90, Category: "Science & Nature", Difficulty: "hard", TimeTaken: 280, Timestamp: now.Add(-2 * time.Hour)},
		{ID: "3", PlayerName: "History Buff", Score: 88, TotalQuestions: 10, Percentage: 88, Category: "History", Difficulty: "medium", TimeTaken: 320, Timestamp: now.Add(-3 * time.Hour)},
		{ID: "4", PlayerName: "Science Geek", Score: 85, TotalQuestions: 10, Percentage: 85, Category: "Science: Computers", Difficulty: "hard", TimeTaken: 300, Timestamp: now.Add(-4 * time.Hour)},
		{ID: "5", PlayerName: "Movie Expert", Score: 82, TotalQuestions: 10, Percentage: 82, Category: "Entertainment: Film", Difficulty: "medium", TimeTaken: 350, Timestamp: now.Add(-5 * time.Hour)},
	}

	lb := Leaderboard{Entries: entries, Players: len(entries)}
	sum := 0
	for _, e := range entries {
		sum += e.Percentage
		if e.Percentage > lb.BestPercentage {
			lb.BestPercentage = e.Percentage
		}
	}
	if len(entries) > 0 {
		lb.AveragePercentage = (2*sum + len(entries)) / (2 * len(entries))
	}
	return lb
}
