package httpadapter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgscan/internal/domain"
)

type staticStatus struct {
	state    string
	counters domain.RunCounters
}

func (s staticStatus) Status() (string, domain.RunCounters) { return s.state, s.counters }

func TestGetHealthz(t *testing.T) {
	srv := New("run-1", staticStatus{})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetStatus(t *testing.T) {
	srv := New("run-1", staticStatus{
		state:    "running",
		counters: domain.RunCounters{Total: 5, Succeeded: 3, Failed: 2, FoundSecrets: 1},
	})
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, statusResponse{
		RunID:        "run-1",
		State:        "running",
		Total:        5,
		Succeeded:    3,
		Failed:       2,
		FoundSecrets: 1,
	}, got)
}
