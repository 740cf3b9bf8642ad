package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-league/internal/config"
	"github.com/riskibarqy/cricket-league/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "cricket-league-api",
		HTTPAddr:           ":0",
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		ReplayWorkers:      2,
		LiveFeedEnabled:    true,
	}
}

func TestNew_MemoryBackendServesRoutes(t *testing.T) {
	application, err := New(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, application.Close()) })

	rec := httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	application.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/players/harbour-hawks-01/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, err := New(context.Background(), cfg, nil)
	require.Error(t, err)
}

func TestNew_MissingSeedFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.SeedFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := New(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestApp_CloseIsSafeTwice(t *testing.T) {
	cfg := memoryConfig()
	cfg.CacheEnabled = false
	cfg.LiveFeedEnabled = false

	application, err := New(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	require.NoError(t, application.Close())
	require.NoError(t, application.Close())
}
