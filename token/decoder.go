package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Decoder extracts the claims embedded in a bearer token without verifying
// its signature. Only the backend can check authenticity; locally the token
// is inspected for structure and expiry so the UI can render an optimistic
// logged-in state before any network round trip.
type Decoder struct {
	nowTime func() time.Time
}

// DecoderOption defines a function type to modify the Decoder instance.
type DecoderOption func(*Decoder)

// WithNow sets the clock used for the expiry check (primarily for testing).
func WithNow(now func() time.Time) DecoderOption {
	return func(d *Decoder) {
		d.nowTime = now
	}
}

// NewDecoder creates a Decoder. Optional configuration can be provided via
// options (e.g. WithNow for testing).
func NewDecoder(options ...DecoderOption) *Decoder {
	d := &Decoder{nowTime: time.Now}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Decode parses raw and returns its claims, or nil when the token is not a
// usable session credential: wrong segment count, a payload segment that is
// not base64url encoded JSON, a missing expiry, or an expiry at or before
// the current instant. Decode never returns an error - every malformed
// token reads as "no usable session".
func (d *Decoder) Decode(raw string) *Claims {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil
	}

	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return nil
	}

	claims := &Claims{Exp: int64(exp)}

	// The boundary instant counts as expired: the token is usable only
	// while exp in milliseconds is strictly in the future.
	if claims.Exp*1000 <= d.nowTime().UnixMilli() {
		return nil
	}

	if userID, ok := mapClaims["userId"].(float64); ok {
		claims.UserID = int64(userID)
	}
	claims.Email, _ = mapClaims["email"].(string)
	claims.FirstName, _ = mapClaims["first_name"].(string)
	claims.LastName, _ = mapClaims["last_name"].(string)

	return claims
}
