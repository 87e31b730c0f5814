package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"orgscan/internal/domain"
)

// StatusProvider exposes a snapshot of the run for the live endpoint.
type StatusProvider interface {
	Status() (state string, counters domain.RunCounters)
}

// Server serves the optional live status endpoint of a batch run. Read-only;
// it never influences scheduling.
type Server struct {
	runID string
	pool  StatusProvider
}

func New(runID string, pool StatusProvider) *Server {
	return &Server{runID: runID, pool: pool}
}

// Routes returns a chi.Router with the status handlers mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.getHealthz)
	r.Get("/status", s.getStatus)
	return r
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type statusResponse struct {
	RunID        string `json:"run_id"`
	State        string `json:"state"`
	Total        int    `json:"total"`
	Succeeded    int    `json:"succeeded"`
	Failed       int    `json:"failed"`
	FoundSecrets int    `json:"found_secrets"`
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	state, c := s.pool.Status()
	writeJSON(w, statusResponse{
		RunID:        s.runID,
		State:        state,
		Total:        c.Total,
		Succeeded:    c.Succeeded,
		Failed:       c.Failed,
		FoundSecrets: c.FoundSecrets,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
