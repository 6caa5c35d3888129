// Package server is the HTTP front-end of the job board: server-rendered
// pages over the backend REST API, with one guarded session per browser.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jobvine/jobvine-web/backend"
	"github.com/jobvine/jobvine-web/internal/config"
	"github.com/jobvine/jobvine-web/session"
	"github.com/jobvine/jobvine-web/token"
)

type Server struct {
	env        string // Environment (e.g. "DEV", "production")
	appName    string
	mux        *http.ServeMux
	routes     []string
	fileServer http.Handler
	config     config.Config
	client     *backend.Client
	sessions   *session.Manager
	vault      *token.Vault
	validate   *validator.Validate
}

func New(cfg config.Config) (*Server, error) {
	client, err := backend.NewClient(cfg.GetBackendURL())
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create backend client: %w", err)
	}

	cookieKey, err := cfg.GetCookieKey()
	if err != nil {
		return nil, fmt.Errorf("[Server New] cookie key: %w", err)
	}
	vault, err := token.NewVault(cfg.GetTokenCookieName(), cookieKey)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create token vault: %w", err)
	}

	sessions, err := session.NewManager(
		session.NewInMemoryRepo(),
		client,
		session.WithVerifyTimeout(time.Duration(cfg.GetVerifyTimeout())*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create session manager: %w", err)
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		client:   client,
		sessions: sessions,
		vault:    vault,
		validate: validator.New(),
	}
	s.env = cfg.GetEnv()
	s.appName = cfg.GetAppName()
	s.fileServer = FileServerHandler()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + resetColor
	} else {
		displayMethod = gray + paddedMethod + resetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// getScheme determines the scheme (http/https) the browser used.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
