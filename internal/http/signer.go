package httpx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// CookieSigner authenticates session cookie values with HMAC-SHA256 keyed by
// the configured session secret. The session ID itself is random and opaque;
// the signature stops a fabricated cookie from reaching the session store.
type CookieSigner struct {
	secret []byte
}

// NewCookieSigner creates a signer from the session secret.
func NewCookieSigner(secret string) *CookieSigner {
	return &CookieSigner{secret: []byte(secret)}
}

// Sign returns the cookie wire form "value.signature".
func (s *CookieSigner) Sign(value string) string {
	return value + "." + s.signature(value)
}

// Verify checks the wire form and returns the embedded value.
// Malformed or tampered input yields ok=false.
func (s *CookieSigner) Verify(signed string) (string, bool) {
	idx := strings.LastIndexByte(signed, '.')
	if idx <= 0 || idx == len(signed)-1 {
		return "", false
	}
	value, sig := signed[:idx], signed[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.signature(value))) {
		return "", false
	}
	return value, true
}

func (s *CookieSigner) signature(value string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
