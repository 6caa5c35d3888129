package token

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// ErrNoToken is returned by Vault.Get when the browser holds no usable token.
var ErrNoToken = errors.New("no token stored")

// Vault persists the single client-side credential: the raw bearer token,
// sealed with ChaCha20-Poly1305 and written into one named HTTP-only cookie.
// A cookie that fails to open reads as "no token" rather than an error -
// a tampered or stale value is indistinguishable from a logged-out browser.
type Vault struct {
	cookieName string
	aead       cipher.AEAD
}

// NewVault creates a Vault sealing under the given 32 byte key.
func NewVault(cookieName string, key []byte) (*Vault, error) {
	if cookieName == "" {
		return nil, errors.New("[NewVault] cookieName is required")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Wrap(err, "[NewVault] chacha20poly1305.New")
	}
	return &Vault{cookieName: cookieName, aead: aead}, nil
}

// Set seals raw and writes the token cookie. maxAge follows http.Cookie
// semantics (negative deletes, zero means session cookie).
func (v *Vault) Set(w http.ResponseWriter, r *http.Request, raw string, maxAge int) error {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[Vault.Set] rand.Read")
	}
	sealed := v.aead.Seal(nonce, nonce, []byte(raw), nil)

	http.SetCookie(w, &http.Cookie{
		Name:     v.cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(sealed),
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}

// Get returns the raw token stored in the request's cookie jar.
// Missing, unreadable, and tampered cookies all return ErrNoToken.
func (v *Vault) Get(r *http.Request) (string, error) {
	cookie, err := r.Cookie(v.cookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoToken
	}

	sealed, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil || len(sealed) < v.aead.NonceSize() {
		return "", ErrNoToken
	}

	nonce, ciphertext := sealed[:v.aead.NonceSize()], sealed[v.aead.NonceSize():]
	raw, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrNoToken
	}
	return string(raw), nil
}

// Clear removes the token cookie.
func (v *Vault) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     v.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
