package token_test

import (
	"encoding/base64"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jobvine/jobvine-web/token"
)

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// signToken builds a structurally valid JWT. The signature is never
// checked locally, so any key works.
func signToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("irrelevant-key"))
	require.NoError(t, err)
	return raw
}

func TestDecodeValidToken(t *testing.T) {
	raw := signToken(t, jwtlib.MapClaims{
		"userId":     float64(42),
		"email":      "jane@example.com",
		"first_name": "Jane",
		"last_name":  "Doe",
		"exp":        float64(testNow.Add(time.Hour).Unix()),
	})

	d := token.NewDecoder(token.WithNow(fixedNow))
	claims := d.Decode(raw)

	require.NotNil(t, claims)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "jane@example.com", claims.Email)
	require.Equal(t, "Jane Doe", claims.FullName())
	require.Equal(t, testNow.Add(time.Hour).Unix(), claims.Exp)
}

func TestDecodeExpiredToken(t *testing.T) {
	raw := signToken(t, jwtlib.MapClaims{
		"userId": float64(42),
		"exp":    float64(testNow.Add(-time.Minute).Unix()),
	})

	d := token.NewDecoder(token.WithNow(fixedNow))
	require.Nil(t, d.Decode(raw))
}

func TestDecodeExpiryBoundaryCountsAsExpired(t *testing.T) {
	exp := testNow.Unix()
	raw := signToken(t, jwtlib.MapClaims{"userId": float64(1), "exp": float64(exp)})

	// One millisecond before the boundary the token is still usable.
	before := token.NewDecoder(token.WithNow(func() time.Time {
		return time.UnixMilli(exp*1000 - 1)
	}))
	require.NotNil(t, before.Decode(raw))

	// At the boundary instant it is not.
	at := token.NewDecoder(token.WithNow(func() time.Time {
		return time.UnixMilli(exp * 1000)
	}))
	require.Nil(t, at.Decode(raw))
}

func TestDecodeMalformedTokens(t *testing.T) {
	d := token.NewDecoder(token.WithNow(fixedNow))

	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"exp":99999999999}`))

	tests := map[string]string{
		"empty":               "",
		"whitespace":          "   ",
		"not a token":         "hello world",
		"two segments":        "abc.def",
		"four segments":       "a.b.c.d",
		"payload not base64":  "aGVhZGVy.!!!.c2ln",
		"payload not json":    "aGVhZGVy." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c2ln",
		"header not base64":   "!!!." + payload + ".c2ln",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			require.Nil(t, d.Decode(raw))
		})
	}
}

func TestDecodeMissingOrBadExp(t *testing.T) {
	d := token.NewDecoder(token.WithNow(fixedNow))

	t.Run("no exp claim", func(t *testing.T) {
		raw := signToken(t, jwtlib.MapClaims{"userId": float64(1)})
		require.Nil(t, d.Decode(raw))
	})

	t.Run("non-numeric exp", func(t *testing.T) {
		raw := signToken(t, jwtlib.MapClaims{"userId": float64(1), "exp": "tomorrow"})
		require.Nil(t, d.Decode(raw))
	})
}

func TestDecodeToleratesMissingProfileClaims(t *testing.T) {
	raw := signToken(t, jwtlib.MapClaims{
		"exp": float64(testNow.Add(time.Hour).Unix()),
	})

	d := token.NewDecoder(token.WithNow(fixedNow))
	claims := d.Decode(raw)

	require.NotNil(t, claims)
	require.Zero(t, claims.UserID)
	require.Empty(t, claims.Email)
	require.Empty(t, claims.FullName())
}
