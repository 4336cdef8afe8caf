package crypt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTokenInvalidFormat        = errors.New("token has wrong format")
	ErrTokenCannotDecodeIdent    = errors.New("token identifier cannot be decoded")
	ErrTokenCannotDecodeExp      = errors.New("token expiration cannot be decoded")
	ErrTokenSignatureNotMatching = errors.New("token signature does not match")
	ErrTokenExpNotParseable      = errors.New("token expiration is not a valid timestamp")
	ErrTokenExpired              = errors.New("token expired")
)

// Token is a stateless signed session credential.
// Wire format: `identB64u.expB64u.signB64u` where ident is the author email
// and exp is an RFC3339 timestamp.
type Token struct {
	Ident    string // identifier, the author's email
	Exp      string // expiration timestamp, RFC3339
	SignB64u string // signature over the first two components
}

// ParseToken splits a wire-form token into its three components. The
// signature part is kept verbatim; the first two parts are base64url-decoded.
func ParseToken(tokenStr string) (Token, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return Token{}, ErrTokenInvalidFormat
	}

	ident, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Token{}, ErrTokenCannotDecodeIdent
	}
	exp, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Token{}, ErrTokenCannotDecodeExp
	}

	return Token{
		Ident:    string(ident),
		Exp:      string(exp),
		SignB64u: parts[2],
	}, nil
}

// String renders the wire form. For any token produced by GenerateToken,
// ParseToken(t.String()) returns an equal token.
func (t Token) String() string {
	return fmt.Sprintf("%s.%s.%s",
		base64.RawURLEncoding.EncodeToString([]byte(t.Ident)),
		base64.RawURLEncoding.EncodeToString([]byte(t.Exp)),
		t.SignB64u,
	)
}

// GenerateToken creates a signed token for ident expiring durationSec from
// now. Fractional durations are supported so tests can use sub-second
// lifetimes.
func GenerateToken(ident string, durationSec float64, salt string, key []byte) (Token, error) {
	exp := time.Now().UTC().
		Add(time.Duration(durationSec * float64(time.Second))).
		Format(time.RFC3339Nano)

	sign, err := tokenSignB64u(ident, exp, salt, key)
	if err != nil {
		return Token{}, err
	}

	return Token{Ident: ident, Exp: exp, SignB64u: sign}, nil
}

// ValidateToken checks the token signature and expiry, in that order. The
// signature check gates the expiry check so a forged token never learns
// whether its expiry would have been accepted.
func ValidateToken(t Token, salt string, key []byte) error {
	wantSign, err := tokenSignB64u(t.Ident, t.Exp, salt, key)
	if err != nil {
		return err
	}
	if wantSign != t.SignB64u {
		return ErrTokenSignatureNotMatching
	}

	exp, err := time.Parse(time.RFC3339Nano, t.Exp)
	if err != nil {
		return ErrTokenExpNotParseable
	}
	if exp.Before(time.Now().UTC()) {
		return ErrTokenExpired
	}

	return nil
}

// tokenSignB64u signs the first two wire components. The salt is the
// per-author token salt; changing it invalidates every outstanding token
// for that author.
func tokenSignB64u(ident, exp, salt string, key []byte) (string, error) {
	content := fmt.Sprintf("%s.%s",
		base64.RawURLEncoding.EncodeToString([]byte(ident)),
		base64.RawURLEncoding.EncodeToString([]byte(exp)),
	)
	return SignB64u(key, content, salt)
}
