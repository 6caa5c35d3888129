package server

import (
	"net/http"

	"github.com/jobvine/jobvine-web/backend"
)

// Layout captures the shared page chrome: titles, navbar auth state and the
// notice banner. The auth flags come from the request's resolved session -
// the navbar never re-derives login state on its own.
type Layout struct {
	AppName         string
	Title           string
	CurrentPage     string
	IsAuthenticated bool
	IsEmployer      bool
	User            *backend.User
	Notice          string
	Error           string
}

// layout builds the chrome for the current request. A notice code on the
// query string is translated to its banner text; unknown codes are dropped.
func (s *Server) layout(r *http.Request, title, currentPage string) Layout {
	l := Layout{
		AppName:     s.appName,
		Title:       title,
		CurrentPage: currentPage,
	}

	if rs, ok := SessionFrom(r.Context()); ok && rs.LoggedIn {
		l.IsAuthenticated = true
		l.User = rs.User
		l.IsEmployer = rs.User != nil && rs.User.Role == backend.RoleEmployer
	}

	if code := r.URL.Query().Get("notice"); code != "" {
		l.Notice = noticeMessages[code]
	}
	if msg := r.URL.Query().Get("error"); msg != "" {
		l.Error = msg
	}

	return l
}
