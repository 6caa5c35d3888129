package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// IndexPageData contains data for rendering the landing page
type IndexPageData struct {
	Layout
}

// IndexPageHandler displays the public landing page (GET /). A logged-in
// browser skips straight to its dashboard. The mux treats "/" as a
// catch-all, so anything other than the exact root is a 404 here.
func (s *Server) IndexPageHandler() http.HandlerFunc {
	indexTmpl, err := ParsePage("index.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse index template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != RouteIndex {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}

		if rs, ok := SessionFrom(r.Context()); ok && rs.LoggedIn {
			http.Redirect(w, r, RouteDashboard, http.StatusSeeOther)
			return
		}

		data := IndexPageData{Layout: s.layout(r, "Find your next role", "index")}
		s.renderPage(w, indexTmpl, data)
	}
}
