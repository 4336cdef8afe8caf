package config

import (
	"encoding/base64"
	"log"
	"os"
	"strconv"
)

// Secrets holds the process-wide signing material and token settings.
// Loaded once in main and passed down; never mutated afterwards.
//
// Environment variables:
//   - SERVICE_TOKEN_KEY: base64url (no padding) HMAC key for session tokens
//   - SERVICE_PWD_KEY: base64url (no padding) HMAC key for password hashing
//   - SERVICE_TOKEN_DURATION_SEC: token lifetime in seconds (fractional allowed)
//
// The two keys must be distinct so that leaking one does not compromise
// the other. Use cmd/genkey to generate fresh 64-byte keys.
type Secrets struct {
	TokenKey         []byte
	PwdKey           []byte
	TokenDurationSec float64
}

func Load() *Secrets {
	tokenKey := mustKey("SERVICE_TOKEN_KEY")
	pwdKey := mustKey("SERVICE_PWD_KEY")

	rawDur := os.Getenv("SERVICE_TOKEN_DURATION_SEC")
	if rawDur == "" {
		log.Fatal("SERVICE_TOKEN_DURATION_SEC is empty")
	}
	dur, err := strconv.ParseFloat(rawDur, 64)
	if err != nil || dur <= 0 {
		log.Fatal("SERVICE_TOKEN_DURATION_SEC must be a positive number, got: ", rawDur)
	}

	return &Secrets{
		TokenKey:         tokenKey,
		PwdKey:           pwdKey,
		TokenDurationSec: dur,
	}
}

func mustKey(name string) []byte {
	raw := os.Getenv(name)
	if raw == "" {
		log.Fatal(name + " is empty")
	}
	key, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		log.Fatal(name+" is not valid base64url: ", err)
	}
	if len(key) < 32 {
		log.Fatalf("%s is too short: got %d bytes, want at least 32", name, len(key))
	}
	return key
}
