package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eisenhower-board/internal/auth"
	"eisenhower-board/internal/gemini"
	"eisenhower-board/internal/handlers"
	"eisenhower-board/internal/realtime"
	"eisenhower-board/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo, err := repository.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	uploads, err := handlers.NewUploadStore(t.TempDir())
	require.NoError(t, err)
	log := zap.NewNop()
	return Deps{
		Repo:    repo,
		Hub:     realtime.NewHub(log),
		Uploads: uploads,
		Images:  gemini.New(gemini.Settings{}, log),
		Log:     log,
	}
}

func TestHealth(t *testing.T) {
	r := SetupRoutes(testDeps(t))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestOpenRoutesWithoutAuth(t *testing.T) {
	r := SetupRoutes(testDeps(t))

	for _, path := range []string{"/", "/api/tasks", "/api/staff", "/api/bootstrap"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/login", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMutationsRequireTokenWhenAuthEnabled(t *testing.T) {
	deps := testDeps(t)
	deps.Signer = auth.NewSigner("test-secret", time.Hour)
	r := SetupRoutes(deps)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"tasks":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := deps.Signer.GenerateToken("board")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"detail":"タスクが見つかりません"}`, w.Body.String())
}

func TestTestImageUnconfigured(t *testing.T) {
	r := SetupRoutes(testDeps(t))
	req := httptest.NewRequest(http.MethodPost, "/api/gemini/test-image", nil)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
