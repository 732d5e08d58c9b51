package trivia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trivia-quiz-service/internal/domain"
)

const (
	questionsPath  = "/api.php"
	categoriesPath = "/api_category.php"
)

var errNoCategories = errors.New("trivia provider returned no categories")

// RawQuestion is a question as the provider returns it.
type RawQuestion struct {
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type questionsResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []domain.Category `json:"trivia_categories"`
}

// Query filters a question fetch. Zero values are omitted from the request.
type Query struct {
	Amount     int
	CategoryID int
	Difficulty domain.Difficulty
	Type       domain.QuestionType
	// Encoding is passed as the provider's encode parameter; empty means none.
	Encoding string
}

// ProviderError reports a non-zero response_code in a successful HTTP response.
type ProviderError struct {
	Code int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("trivia provider response code %d", e.Code)
}

func (e *ProviderError) Is(target error) bool {
	return target == domain.ErrQuestionFetch
}

// StatusError reports a non-2xx HTTP status from the provider.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("trivia provider http status %d", e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == domain.ErrQuestionFetch
}

// Client talks to the remote trivia provider.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Questions fetches raw questions. Any transport, status or provider failure
// satisfies errors.Is(err, domain.ErrQuestionFetch).
func (c *Client) Questions(ctx context.Context, q Query) ([]RawQuestion, error) {
	params := url.Values{}
	amount := q.Amount
	if amount <= 0 {
		amount = 10
	}
	params.Set("amount", strconv.Itoa(amount))
	if q.Encoding != "" {
		params.Set("encode", q.Encoding)
	}
	if q.CategoryID > 0 {
		params.Set("category", strconv.Itoa(q.CategoryID))
	}
	if q.Difficulty != "" {
		params.Set("difficulty", string(q.Difficulty))
	}
	if q.Type != "" {
		params.Set("type", string(q.Type))
	}

	var payload questionsResponse
	if err := c.getJSON(ctx, questionsPath+"?"+params.Encode(), &payload); err != nil {
		return nil, err
	}
	if payload.ResponseCode != 0 {
		return nil, &ProviderError{Code: payload.ResponseCode}
	}
	return payload.Results, nil
}

// Categories fetches the provider's category list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var payload categoriesResponse
	if err := c.getJSON(ctx, categoriesPath, &payload); err != nil {
		return nil, err
	}
	if len(payload.TriviaCategories) == 0 {
		return nil, errNoCategories
	}
	return payload.TriviaCategories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrQuestionFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrQuestionFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrQuestionFetch, err)
	}
	return nil
}
