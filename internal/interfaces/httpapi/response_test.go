package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/cricket-league/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body struct {
		APIVersion string     `json:"apiVersion"`
		Data       any        `json:"data"`
		Error      *errorBody `json:"error"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return envelope{APIVersion: body.APIVersion, Data: body.Data, Error: body.Error}
}

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]int{"runs": 4})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "2.0", env.APIVersion)
	assert.NotNil(t, env.Data)
	assert.Nil(t, env.Error)
}

func TestWriteError_Classification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
		wantReason string
	}{
		{"invalid input", fmt.Errorf("%w: runs must be >= 0", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT", "invalidInput"},
		{"not found", fmt.Errorf("%w: match m-9", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND", "notFound"},
		{"invalid state", fmt.Errorf("%w: innings completed", usecase.ErrInvalidState), http.StatusConflict, "FAILED_PRECONDITION", "invalidState"},
		{"conflict", fmt.Errorf("%w: team registered", usecase.ErrConflict), http.StatusConflict, "ALREADY_EXISTS", "conflict"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED", "unauthorized"},
		{"unavailable", fmt.Errorf("append ball: %w", usecase.ErrDependencyUnavailable), http.StatusServiceUnavailable, "UNAVAILABLE", "dependencyUnavailable"},
		{"unknown", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "INTERNAL", "internalError"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			assert.Equal(t, tc.wantCode, rec.Code)
			env := decodeEnvelope(t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.wantCode, env.Error.Code)
			assert.Equal(t, tc.wantStatus, env.Error.Status)
			require.Len(t, env.Error.Errors, 1)
			assert.Equal(t, tc.wantReason, env.Error.Errors[0].Reason)
			assert.Equal(t, errorDomain, env.Error.Errors[0].Domain)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("pq: password authentication failed"))

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Internal Server Error", env.Error.Message)
	assert.NotContains(t, rec.Body.String(), "password")
}
