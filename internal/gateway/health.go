package gateway

import (
	"encoding/json"
	"net/http"
)

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"` // "ok" or "starting"
	Directory int    `json:"directory"`
	Processed int64  `json:"processed"`
	Failed    int64  `json:"failed"`
}

// handleHealth answers 200 once the runner is streaming and 503 before.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := HealthResponse{Status: "starting"}
		if s.status != nil {
			st := s.status.Stats()
			resp.Directory = st.Directory
			resp.Processed = st.Processed
			resp.Failed = st.Failed
			if s.status.Streaming() {
				resp.Status = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if resp.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}
}
