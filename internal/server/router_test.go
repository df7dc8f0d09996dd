package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azhengyongqin/blockedby/internal/healthcheck"
	"github.com/azhengyongqin/blockedby/internal/model"
	"github.com/azhengyongqin/blockedby/internal/progress"
	"github.com/azhengyongqin/blockedby/internal/server/dto"
)

func newTestRouter(t *testing.T, ready error) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := model.NewCrawlState()
	st.AuthenticatedUserID = "1"
	for st.Pending.Len() > 1 {
		st.Pending.PopFront()
	}
	st.BlockedUsers.Set("x", &model.BlockedUser{ID: "x", Name: "Ex", Handle: "ex", Introducers: model.NewIDSet("a")})
	st.BlockedUsers.Set("y", &model.BlockedUser{ID: "y", Name: "Why", Handle: "why", Introducers: model.NewIDSet("b")})
	st.Failed = append(st.Failed, model.FetchDistance2{Direction: model.Incoming, SubjectID: "c", Cursor: "-1"})

	tracker := progress.NewTracker(zerolog.Nop())
	tracker.Reset("run-1", st)

	hc := healthcheck.NewHealthChecker("test")
	hc.Register("checkpoint", healthcheck.PingerFunc(func(context.Context) error { return ready }))

	return NewRouter(Deps{Progress: tracker, HealthChecker: hc})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestProgress(t *testing.T) {
	w := get(t, newTestRouter(t, nil), "/api/v1/progress")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProgressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, "checking", resp.Phase)
	assert.Equal(t, "1", resp.AccountID)
	assert.Equal(t, 1, resp.Remaining)
	assert.Equal(t, 2, resp.Blocked)
	assert.Equal(t, 1, resp.Failed)
	assert.False(t, resp.Complete)
}

func TestBlockedUsers(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantCode int
		wantIDs  []string
	}{
		{name: "default page", query: "", wantCode: http.StatusOK, wantIDs: []string{"x", "y"}},
		{name: "limit", query: "?limit=1", wantCode: http.StatusOK, wantIDs: []string{"x"}},
		{name: "offset", query: "?offset=1", wantCode: http.StatusOK, wantIDs: []string{"y"}},
		{name: "offset past end", query: "?offset=10", wantCode: http.StatusOK, wantIDs: []string{}},
		{name: "limit too large", query: "?limit=5000", wantCode: http.StatusBadRequest},
		{name: "not a number", query: "?limit=abc", wantCode: http.StatusBadRequest},
	}

	h := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, h, "/api/v1/blocked-users"+tt.query)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp dto.BlockedUsersResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, 2, resp.Total)
			ids := []string{}
			for _, u := range resp.Items {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFailedTasks(t *testing.T) {
	w := get(t, newTestRouter(t, nil), "/api/v1/failed-tasks")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.FailedTasksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []string{"fetch_distance2(incoming, subject=c, cursor=-1)"}, resp.Items)
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		ready    error
		wantCode int
		want     map[string]string
	}{
		{
			name:     "liveness",
			path:     "/healthz",
			wantCode: http.StatusOK,
			want:     map[string]string{"service": "running", "phase": "checking", "run_id": "run-1"},
		},
		{
			name:     "ready",
			path:     "/readyz",
			wantCode: http.StatusOK,
			want:     map[string]string{"checkpoint": "ok", "phase": "checking", "run_id": "run-1"},
		},
		{
			name:     "checkpoint down",
			path:     "/readyz",
			ready:    errors.New("down"),
			wantCode: http.StatusServiceUnavailable,
			want:     map[string]string{"checkpoint": "error: down", "phase": "checking", "run_id": "run-1"},
		},
		{
			name:     "liveness ignores checkpoint",
			path:     "/healthz",
			ready:    errors.New("down"),
			wantCode: http.StatusOK,
			want:     map[string]string{"service": "running", "phase": "checking", "run_id": "run-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, newTestRouter(t, tt.ready), tt.path)
			require.Equal(t, tt.wantCode, w.Code)

			var result healthcheck.CheckResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.want, result.Checks)
			assert.Equal(t, "test", result.Version)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, nil)
	_ = get(t, h, "/api/v1/progress")

	w := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blockedby_http_requests_total")
}

func TestSwaggerDoc(t *testing.T) {
	w := get(t, newTestRouter(t, nil), "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/blocked-users")
}
