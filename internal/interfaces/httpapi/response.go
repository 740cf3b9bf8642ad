package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-league/internal/usecase"
)

// Every body follows the Google JSON style guide envelope:
// {"apiVersion": "2.0", "data": ...} or {"apiVersion": "2.0", "error": {...}}.
const (
	apiVersion  = "2.0"
	errorDomain = "cricket-league.scoring"
)

type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Errors  []errorDetail `json:"errors,omitempty"`
}

type errorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// errorClass ties a usecase sentinel to its HTTP and canonical status.
type errorClass struct {
	target     error
	httpStatus int
	status     string
	reason     string
}

var internalClass = errorClass{
	httpStatus: http.StatusInternalServerError,
	status:     "INTERNAL",
	reason:     "internalError",
}

// Order matters: the first sentinel found in the chain wins.
var errorClasses = []errorClass{
	{usecase.ErrInvalidInput, http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
	{usecase.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "notFound"},
	{usecase.ErrInvalidState, http.StatusConflict, "FAILED_PRECONDITION", "invalidState"},
	{usecase.ErrConflict, http.StatusConflict, "ALREADY_EXISTS", "conflict"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized"},
	{usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
}

func classify(err error) errorClass {
	for _, class := range errorClasses {
		if errors.Is(err, class.target) {
			return class
		}
	}
	return internalClass
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(body)
}

func writeSuccess(_ context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{APIVersion: apiVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classify(err)
	markSpanError(ctx, class.httpStatus, err)

	msg := err.Error()
	if class.httpStatus == http.StatusInternalServerError {
		// Unclassified errors can carry driver detail; keep it out of the body.
		msg = http.StatusText(http.StatusInternalServerError)
	}
	writeClassified(w, class, msg)
}

func writeClassified(w http.ResponseWriter, class errorClass, msg string) {
	writeJSON(w, class.httpStatus, envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Message: msg,
			Status:  class.status,
			Errors:  []errorDetail{{Domain: errorDomain, Reason: class.reason, Message: msg}},
		},
	})
}
