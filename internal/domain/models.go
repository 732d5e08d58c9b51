package domain

import "time"

// Difficulty is the provider's difficulty filter.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the accepted difficulty levels in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty reports whether raw names a known difficulty.
func ParseDifficulty(raw string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if string(d) == raw {
			return d, true
		}
	}
	return "", false
}

// QuestionType is either multiple choice or true/false.
type QuestionType string

const (
	TypeMultiple QuestionType = "multiple"
	TypeBoolean  QuestionType = "boolean"
)

// Category is a trivia category as listed by the provider.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Question is a decoded provider question plus the per-attempt answer state.
//
// Options contains CorrectAnswer exactly once and its order is fixed at fetch
// time. SelectedAnswer and IsCorrect are only ever written together.
type Question struct {
	ID               string       `json:"id"`
	Category         string       `json:"category"`
	Type             QuestionType `json:"type"`
	Difficulty       Difficulty   `json:"difficulty"`
	Text             string       `json:"question"`
	CorrectAnswer    string       `json:"correct_answer"`
	IncorrectAnswers []string     `json:"incorrect_answers"`
	Options          []string     `json:"options"`
	SelectedAnswer   *string      `json:"selected_answer,omitempty"`
	IsCorrect        *bool        `json:"is_correct,omitempty"`
}

// Answered reports whether an answer has been recorded.
func (q Question) Answered() bool {
	return q.SelectedAnswer != nil
}

// Status is the lifecycle state of a quiz session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Score summarizes the answers of a session.
type Score struct {
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// CalculateScore counts correct answers and rounds the percentage half up.
func CalculateScore(questions []Question) Score {
	total := len(questions)
	correct := 0
	for _, q := range questions {
		if q.IsCorrect != nil && *q.IsCorrect {
			correct++
		}
	}
	score := Score{Correct: correct, Incorrect: total - correct, Total: total}
	if total > 0 {
		score.Percentage = (200*correct + total) / (2 * total)
	}
	return score
}

// QuestionView is the presentation shape of a question. The correct answer is
// only revealed once the question has been answered.
type QuestionView struct {
	ID             string       `json:"id"`
	Number         int          `json:"number"`
	Category       string       `json:"category"`
	Type           QuestionType `json:"type"`
	Difficulty     Difficulty   `json:"difficulty"`
	Text           string       `json:"question"`
	Options        []string     `json:"options"`
	Answered       bool         `json:"answered"`
	SelectedAnswer string       `json:"selected_answer,omitempty"`
	IsCorrect      *bool        `json:"is_correct,omitempty"`
	CorrectAnswer  string       `json:"correct_answer,omitempty"`
}

// SessionView is what the presentation layer needs to render a session.
type SessionView struct {
	ID                   string        `json:"id"`
	Status               Status        `json:"status"`
	CurrentIndex         int           `json:"current_index"`
	TotalQuestions       int           `json:"total_questions"`
	ProgressPercentage   int           `json:"progress_percentage"`
	TimeRemainingSeconds int           `json:"time_remaining_seconds"`
	Paused               bool          `json:"paused"`
	LiveScore            int           `json:"live_score"`
	Question             *QuestionView `json:"question,omitempty"`
	IsLastQuestion       bool          `json:"is_last_question"`
	Result               *Result       `json:"result,omitempty"`
}

// Result is the summary handed to the results view once a session completes.
type Result struct {
	Score
	SessionID        string    `json:"session_id"`
	TimeTakenSeconds int       `json:"time_taken_seconds"`
	CategoryID       int       `json:"category_id"`
	Category         string    `json:"category"`
	Difficulty       string    `json:"difficulty"`
	Expired          bool      `json:"expired"`
	CompletedAt      time.Time `json:"completed_at"`
	URL              string    `json:"url"`
}

// LeaderboardEntry is one row of the leaderboard page.
type LeaderboardEntry struct {
	ID             string    `json:"id"`
	PlayerName     string    `json:"player_name"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	Category       string    `json:"category"`
	Difficulty     string    `json:"difficulty"`
	TimeTaken      int       `json:"time_taken"`
	Timestamp      time.Time `json:"timestamp"`
}
