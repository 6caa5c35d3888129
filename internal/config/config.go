package config

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetBackendURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() []string
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

type SessionConfig interface {
	GetCookieKey() ([]byte, error)
	GetTokenCookieName() string
	GetVerifyTimeout() int
}

type mainConfig struct {
	EnvVars
	Cors
	Session
}

func New() Config {
	return mainConfig{}
}
