package crypt

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"errors"
)

// ErrKeyFailHmac means the signing key is unusable. This is a configuration
// problem, not a user-facing failure.
var ErrKeyFailHmac = errors.New("invalid HMAC key material")

// SignB64u computes HMAC-SHA-512 over content followed by salt and returns
// the raw output encoded with the unpadded URL-safe base64 alphabet.
// Deterministic: identical (key, content, salt) always yields the same
// signature. Both the password hasher and the token codec build on this.
func SignB64u(key []byte, content, salt string) (string, error) {
	if len(key) == 0 {
		return "", ErrKeyFailHmac
	}

	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(content))
	mac.Write([]byte(salt))

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}
