package token_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobvine/jobvine-web/token"
)

const testCookieName = "test_token"

var testKey = make([]byte, 32)

func newTestVault(t *testing.T) *token.Vault {
	t.Helper()
	v, err := token.NewVault(testCookieName, testKey)
	require.NoError(t, err)
	return v
}

// requestWithCookies replays the Set-Cookie headers of a recorded response
// onto a fresh request, the way a browser would.
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestVaultRoundTrip(t *testing.T) {
	v := newTestVault(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, v.Set(rec, req, "raw.bearer.token", 3600))

	got, err := v.Get(requestWithCookies(t, rec))
	require.NoError(t, err)
	require.Equal(t, "raw.bearer.token", got)
}

func TestVaultSealsTheToken(t *testing.T) {
	v := newTestVault(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, v.Set(rec, req, "secret-token", 3600))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.NotContains(t, cookies[0].Value, "secret-token")
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestVaultGetMissingCookie(t *testing.T) {
	v := newTestVault(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := v.Get(req)
	require.ErrorIs(t, err, token.ErrNoToken)
}

func TestVaultGetTamperedCookie(t *testing.T) {
	v := newTestVault(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, v.Set(rec, req, "secret-token", 3600))

	cookie := rec.Result().Cookies()[0]

	tests := map[string]string{
		"flipped bytes":   "AAAA" + cookie.Value[4:],
		"truncated":       cookie.Value[:8],
		"not base64":      "%%%not-base64%%%",
		"empty value":     "",
		"wrong cipherkey": cookie.Value[:len(cookie.Value)-4] + "AAAA",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			tampered := httptest.NewRequest(http.MethodGet, "/", nil)
			tampered.AddCookie(&http.Cookie{Name: testCookieName, Value: value})
			_, err := v.Get(tampered)
			require.ErrorIs(t, err, token.ErrNoToken)
		})
	}
}

func TestVaultClear(t *testing.T) {
	v := newTestVault(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	v.Clear(rec, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, testCookieName, cookies[0].Name)
	require.Equal(t, -1, cookies[0].MaxAge)
	require.Empty(t, cookies[0].Value)
}

func TestNewVaultRejectsBadKey(t *testing.T) {
	_, err := token.NewVault(testCookieName, []byte("too short"))
	require.Error(t, err)

	_, err = token.NewVault("", testKey)
	require.Error(t, err)
}
