package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jobvine/jobvine-web/backend"
)

const contentTypeJSON = "application/json"

// sessionResponse is the JSON shape page scripts poll to keep the navbar
// in step with the session (e.g. after a background revocation).
type sessionResponse struct {
	LoggedIn    bool          `json:"loggedIn"`
	LoadingAuth bool          `json:"loadingAuth"`
	User        *backend.User `json:"user,omitempty"`
}

// SessionAPIHandler reports the resolved session state (GET /api/session).
// It never returns a 401: an unauthenticated browser simply reads
// loggedIn=false.
func (s *Server) SessionAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := sessionResponse{}
		if rs, ok := SessionFrom(r.Context()); ok {
			resp.LoggedIn = rs.LoggedIn
			resp.LoadingAuth = rs.LoadingAuth
			if rs.LoggedIn {
				resp.User = rs.User
			}
		}

		w.Header().Set("Content-Type", contentTypeJSON)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Err(err).Msg("Failed to encode session response")
		}
	}
}

// HealthzHandler answers liveness probes (GET /api/healthz).
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Err(err).Msg("Failed to write health response")
		}
	}
}
