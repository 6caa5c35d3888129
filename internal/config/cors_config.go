package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

// GetAllowedOrigins returns the origins allowed to call the /api routes.
// Comma separated in ALLOWED_ORIGINS; defaults to the local dev origin.
func (Cors) GetAllowedOrigins() []string {
	raw := GetEnv("ALLOWED_ORIGINS", "http://localhost:8080")
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (Cors) GetAllowedMethods() []string {
	return []string{"GET", "POST", "PUT", "PATCH", "DELETE"}
}

func (Cors) GetAllowedHeaders() []string {
	return []string{"Content-Type", "Authorization"}
}
