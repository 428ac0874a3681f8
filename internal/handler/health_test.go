package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dependency(name string, err error) DependencyCheck {
	return DependencyCheck{Name: name, Check: func(context.Context) error { return err }}
}

func getReadyz(t *testing.T, deps ...DependencyCheck) (int, HealthResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	HandleReadyz(deps...).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHandleHealthz(t *testing.T) {
	w := httptest.NewRecorder()

	HandleHealthz().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleReadyz(t *testing.T) {
	t.Run("no dependencies", func(t *testing.T) {
		code, resp := getReadyz(t)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
		assert.Nil(t, resp.Checks)
	})

	t.Run("all healthy", func(t *testing.T) {
		code, resp := getReadyz(t, dependency("database", nil), dependency("redis", nil))
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, resp.Checks)
	})

	t.Run("one failing dependency fails readiness", func(t *testing.T) {
		code, resp := getReadyz(t, dependency("database", nil), dependency("redis", errors.New("connection refused")))
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unavailable", resp.Status)
		assert.Equal(t, "ok", resp.Checks["database"])
		assert.Equal(t, "unavailable", resp.Checks["redis"])
	})

	t.Run("checks see the deadline", func(t *testing.T) {
		var hasDeadline bool
		p := DependencyCheck{Name: "database", Check: func(ctx context.Context) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		}}
		code, _ := getReadyz(t, p)
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, hasDeadline)
	})
}

func TestHandleVersion(t *testing.T) {
	old := Version
	Version = "1.4.2"
	t.Cleanup(func() { Version = old })

	w := httptest.NewRecorder()
	HandleVersion().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.4.2", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestBuildInfo_FallsBackToEnv(t *testing.T) {
	old := Version
	Version = "dev"
	t.Cleanup(func() { Version = old })
	t.Setenv("VERSION", "from-env")

	assert.Equal(t, "from-env", buildInfo().Version)
}
