package krakenspot

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strconv"
)

// Signer computes the API-Sign header for private endpoints.
type Signer struct {
	secret []byte
}

// NewSigner decodes the base64 API secret. A malformed secret is returned as
// a *SigningError.
func NewSigner(apiSecret string) (*Signer, error) {
	decoded, err := base64.StdEncoding.DecodeString(apiSecret)
	if err != nil {
		return nil, &SigningError{Err: fmt.Errorf("error decoding api secret | %w", err)}
	}
	return &Signer{secret: decoded}, nil
}

// Sign returns base64(HMAC-SHA512(secret, path + SHA256(nonce + body))).
// 'path' is the URL path including the version prefix, e.g. /0/private/Balance,
// and 'body' is the url-encoded payload which already contains the nonce.
func (s *Signer) Sign(path string, nonce uint64, body string) string {
	sha := sha256.New()
	sha.Write([]byte(strconv.FormatUint(nonce, 10) + body))
	shasum := sha.Sum(nil)

	mac := hmac.New(sha512.New, s.secret)
	mac.Write(append([]byte(path), shasum...))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
