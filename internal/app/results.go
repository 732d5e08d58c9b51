package app

import (
	"fmt"
	"net/url"
	"strconv"

	"trivia-quiz-service/internal/domain"
)

// ResultsURL builds the results page link for a finished session.
func ResultsURL(categoryID int, difficulty string, r domain.Result) string {
	q := url.Values{}
	q.Set("score", strconv.Itoa(r.Correct))
	q.Set("total", strconv.Itoa(r.Total))
	q.Set("percentage", strconv.Itoa(r.Percentage))
	q.Set("time", strconv.Itoa(r.TimeTakenSeconds))
	q.Set("category", r.Category)
	q.Set("difficulty", r.Difficulty)
	return fmt.Sprintf("/quiz/%d/%s/results?%s", categoryID, url.PathEscape(difficulty), q.Encode())
}

// ResultsPage is the data behind the results view.
type ResultsPage struct {
	Correct    int    `json:"correct"`
	Incorrect  int    `json:"incorrect"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	TimeTaken  int    `json:"time_taken"`
	TimeText   string `json:"time_text"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Message    string `json:"message"`
	Grade      string `json:"grade"`
}

// ParseResultsPage reads a results query string. Missing or malformed
// numbers fall back to score 0, total 10, percentage 0, time 0.
func ParseResultsPage(q url.Values) ResultsPage {
	score := intParam(q, "score", 0)
	total := intParam(q, "total", 10)
	percentage := intParam(q, "percentage", 0)
	seconds := intParam(q, "time", 0)

	category := q.Get("category")
	if category == "" {
		category = "Quiz"
	}
	difficulty := q.Get("difficulty")
	if difficulty == "" {
		difficulty = "Mixed"
	}

	return ResultsPage{
		Correct:    score,
		Incorrect:  total - score,
		Total:      total,
		Percentage: percentage,
		TimeTaken:  seconds,
		TimeText:   FormatDuration(seconds),
		Category:   category,
		Difficulty: difficulty,
		Message:    ScoreMessage(percentage),
		Grade:      ScoreGrade(percentage),
	}
}

func ScoreMessage(percentage int) string {
	switch {
	case percentage >= 90:
		return "Excellent! You're a trivia master!"
	case percentage >= 80:
		return "Great job! You really know your stuff!"
	case percentage >= 70:
		return "Good work! You have solid knowledge!"
	case percentage >= 60:
		return "Not bad! Keep learning and improving!"
	case percentage >= 50:
		return "You're getting there! Practice makes perfect!"
	default:
		return "Keep studying! Every expert was once a beginner!"
	}
}

// ScoreGrade buckets a percentage into green, yellow or red.
func ScoreGrade(percentage int) string {
	switch {
	case percentage >= 80:
		return "green"
	case percentage >= 60:
		return "yellow"
	default:
		return "red"
	}
}

// FormatDuration renders seconds as "Nm Ss".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func intParam(q url.Values, key string, fallback int) int {
	raw := q.Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
