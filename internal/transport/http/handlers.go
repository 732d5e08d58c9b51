package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/trivia"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Catalog is the part of the question source the pages read directly.
type Catalog interface {
	FetchCategories(ctx context.Context) []domain.Category
	RawQuestions(ctx context.Context, q trivia.Query) ([]trivia.RawQuestion, error)
}

// ScoreMailer queues score emails without blocking.
type ScoreMailer interface {
	Notify(score, userID string)
}

// Handler serves the JSON pages and the session API.
type Handler struct {
	service *app.QuizService
	catalog Catalog
	mailer  ScoreMailer
	now     func() time.Time
	log     *zap.Logger
}

func NewHandler(service *app.QuizService, catalog Catalog, mailer ScoreMailer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		service: service,
		catalog: catalog,
		mailer:  mailer,
		now:     time.Now,
		log:     log,
	}
}

type homeResponse struct {
	Categories   []domain.Category   `json:"categories"`
	Difficulties []domain.Difficulty `json:"difficulties"`
}

type quizResponse struct {
	State   string              `json:"state"`
	Title   string              `json:"title,omitempty"`
	Message string              `json:"message,omitempty"`
	Session *domain.SessionView `json:"session,omitempty"`
}

type resultsResponse struct {
	app.ResultsPage
	RetryURL string `json:"retry_url"`
}

type sessionResponse struct {
	Applied bool               `json:"applied"`
	Session domain.SessionView `json:"session"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type emailRequest struct {
	Score  json.RawMessage `json:"score"`
	UserID string          `json:"userId"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, homeResponse{
		Categories:   h.catalog.FetchCategories(r.Context()),
		Difficulties: domain.Difficulties,
	})
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, app.SampleLeaderboard(h.now()))
}

// handleProxyQuestion relays a single raw provider question.
func (h *Handler) handleProxyQuestion(w http.ResponseWriter, r *http.Request) {
	raw, err := h.catalog.RawQuestions(r.Context(), trivia.Query{Amount: 1})
	if err != nil {
		h.log.Error("proxy question fetch failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch quiz data"})
		return
	}
	if raw == nil {
		raw = []trivia.RawQuestion{}
	}
	writeJSON(w, http.StatusOK, raw)
}

func (h *Handler) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		h.writeError(w, r, domain.ErrInvalidCategory)
		return
	}
	difficulty := chi.URLParam(r, "difficulty")

	session, err := h.service.Start(r.Context(), categoryID, difficulty)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoQuestions):
		writeJSON(w, http.StatusOK, quizResponse{
			State:   "no_questions",
			Message: "No questions available for this category and difficulty. Please try a different combination.",
		})
		return
	case errors.Is(err, domain.ErrQuestionFetch):
		h.log.Error("quiz start failed", zap.Int("category", categoryID), zap.String("difficulty", difficulty), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, quizResponse{
			State:   "error",
			Message: "Failed to load quiz questions. Please try again.",
		})
		return
	default:
		h.writeError(w, r, err)
		return
	}

	view := session.View()
	title := ""
	if view.Question != nil {
		title = trivia.DisplayName(view.Question.Category)
	}
	writeJSON(w, http.StatusCreated, quizResponse{State: "ready", Title: title, Session: &view})
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, resultsResponse{
		ResultsPage: app.ParseResultsPage(r.URL.Query()),
		RetryURL:    "/quiz/" + chi.URLParam(r, "categoryID") + "/" + chi.URLParam(r, "difficulty"),
	})
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.View(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid answer payload")
		return
	}
	view, applied, err := h.service.SubmitAnswer(chi.URLParam(r, "sessionID"), req.Answer)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Applied: applied, Session: view})
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	view, applied, err := h.service.Advance(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Applied: applied, Session: view})
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	view, applied, err := h.service.TogglePause(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Applied: applied, Session: view})
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEmailScore always accepts; delivery problems only show up in the log.
func (h *Handler) handleEmailScore(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err == nil && len(body) > 0 {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		h.log.Warn("malformed score email request", zap.Error(err))
	}

	h.mailer.Notify(rawScore(req.Score), req.UserID)
	w.WriteHeader(http.StatusAccepted)
}

// rawScore accepts the score as a JSON number or string.
func rawScore(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}
