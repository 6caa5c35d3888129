package config

import (
	"encoding/hex"
	"strconv"

	"github.com/pkg/errors"
)

type Session struct{}

var _ SessionConfig = Session{}

const (
	cookieKeyVar = "COOKIE_KEY"

	// Development fallback only - never used when COOKIE_KEY is set.
	devCookieKeyHex = "5c6f1e2ab94d7c803e1f6a0b8d42e97315a8cd20f4b6391e07c52d8a6e13f049"
)

// GetCookieKey returns the 32 byte key used to seal the token cookie.
// COOKIE_KEY holds the key hex encoded.
func (Session) GetCookieKey() ([]byte, error) {
	keyHex := GetEnv(cookieKeyVar, devCookieKeyHex)
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, errors.Wrap(err, "[GetCookieKey] COOKIE_KEY is not valid hex")
	}
	if len(key) != 32 {
		return nil, errors.Errorf("[GetCookieKey] COOKIE_KEY must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

func (Session) GetTokenCookieName() string {
	return GetEnv("TOKEN_COOKIE_NAME", "jobvine_token")
}

// GetVerifyTimeout returns the background verification timeout in seconds.
func (Session) GetVerifyTimeout() int {
	raw := GetEnv(verifyTimeoutVar, "10")
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 10
	}
	return seconds
}
