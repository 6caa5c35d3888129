package server

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	// Public pages (session still resolved - the navbar reflects it)
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSignup, ChainMiddleware(s.SignupPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteSignup, ChainMiddleware(s.SignupSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteForgotPassword, ChainMiddleware(s.ForgotPasswordPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteForgotPassword, ChainMiddleware(s.ForgotPasswordSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteResetPassword, ChainMiddleware(s.ResetPasswordPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteResetPassword, ChainMiddleware(s.ResetPasswordSubmissionHandler(), s.HTMLMiddleware()...))

	// Protected pages
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteJobs, ChainMiddleware(s.JobListHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteJobNew, ChainMiddleware(s.JobWizardHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteJobNew, ChainMiddleware(s.JobWizardHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteJob, ChainMiddleware(s.JobDetailHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteJobApply, ChainMiddleware(s.JobApplyHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteJobEdit, ChainMiddleware(s.JobEditPageHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteJobEdit, ChainMiddleware(s.JobEditSubmissionHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteJobDelete, ChainMiddleware(s.JobDeleteHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteApplication, ChainMiddleware(s.ApplicationStatusHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteMessages, ChainMiddleware(s.MessagesPageHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteMessagePane, ChainMiddleware(s.MessagesPageHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteMessagePane, ChainMiddleware(s.SendMessageHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("GET "+RouteSettings, ChainMiddleware(s.SettingsPageHandler(), s.HTMLMiddleware(s.RequireSession)...))
	s.RegisterRouteHandler("POST "+RouteSettings, ChainMiddleware(s.SettingsSubmissionHandler(), s.HTMLMiddleware(s.RequireSession)...))

	// JSON API for page scripts
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionAPIHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAPIHealthz, s.HealthzHandler())

	// Static assets
	s.RegisterRouteFunc("GET "+RouteStaticCSS, s.serveFileHandler())
	s.RegisterRouteFunc("GET "+RouteStaticJS, s.serveFileHandler())
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	staticFS := StaticFilesFS()
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if _, err := fs.Stat(staticFS, filePath); err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		s.fileServer.ServeHTTP(w, r)
	}
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + resetColor
	} else {
		displayMethod = gray + paddedMethod + resetColor
	}
	errorString := red + error + resetColor
	log.Printf("[%-19s] %s %s\n", displayMethod, path, errorString)
}
