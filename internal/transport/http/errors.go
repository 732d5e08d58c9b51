package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"trivia-quiz-service/internal/domain"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every error answered by the session API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

const (
	codeNotFound      = "NOT_FOUND"
	codeInvalidInput  = "INVALID_INPUT"
	codeQuestionFetch = "QUESTION_FETCH_FAILED"
	codeNoQuestions   = "NO_QUESTIONS"
	codeInternal      = "INTERNAL_ERROR"
)

func errorResponse(err error) ErrorResponse {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return ErrorResponse{Code: codeNotFound, Message: "quiz session not found", Status: http.StatusNotFound}
	case errors.Is(err, domain.ErrInvalidCategory), errors.Is(err, domain.ErrInvalidDifficulty):
		return ErrorResponse{Code: codeNotFound, Message: "quiz not found", Status: http.StatusNotFound}
	case errors.Is(err, domain.ErrNoQuestions):
		return ErrorResponse{Code: codeNoQuestions, Message: "no questions available", Status: http.StatusOK}
	case errors.Is(err, domain.ErrQuestionFetch):
		return ErrorResponse{Code: codeQuestionFetch, Message: "failed to load quiz questions", Status: http.StatusBadGateway}
	case errors.Is(err, domain.ErrScoreRequired):
		return ErrorResponse{Code: codeInvalidInput, Message: "score is required", Status: http.StatusBadRequest}
	default:
		return ErrorResponse{Code: codeInternal, Message: "internal server error", Status: http.StatusInternalServerError}
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("code", resp.Code),
		zap.Int("status", resp.Status),
		zap.Error(err),
	}
	if resp.Status >= http.StatusInternalServerError {
		h.log.Error("request failed", fields...)
	} else {
		h.log.Debug("request rejected", fields...)
	}
	writeJSON(w, resp.Status, resp)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Code: codeInvalidInput, Message: message, Status: http.StatusBadRequest})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
