package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	baseURLVar       = "BASE_URL"
	backendURLVar    = "BACKEND_URL"
	verifyTimeoutVar = "VERIFY_TIMEOUT_SECONDS"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Jobvine")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBaseURL returns the public base URL of this front-end
// (e.g. "https://app.jobvine.io"), used for absolute redirects.
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

// GetBackendURL returns the base URL of the job-board REST backend
// that owns all business data and issues the bearer tokens.
func (EnvVars) GetBackendURL() string {
	return GetEnv(backendURLVar, "http://localhost:4000")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
