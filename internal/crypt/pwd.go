package crypt

import (
	"crypto/subtle"
	"errors"
)

// pwdSchemePrefix tags stored hashes with the hashing scheme so values can
// be migrated if the scheme ever changes.
const pwdSchemePrefix = "#01#"

var ErrPwdNotMatching = errors.New("password does not match")

// HashPwd hashes a clear-text password under the per-author salt using the
// password key. The result is stable for identical inputs.
func HashPwd(key []byte, clear, salt string) (string, error) {
	sig, err := SignB64u(key, clear, salt)
	if err != nil {
		return "", err
	}
	return pwdSchemePrefix + sig, nil
}

// ValidatePwd recomputes the hash for the clear-text candidate and compares
// it to the stored reference. Returns ErrPwdNotMatching on mismatch; signer
// errors are propagated as-is.
func ValidatePwd(key []byte, clear, salt, pwdRef string) error {
	pwd, err := HashPwd(key, clear, salt)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(pwd), []byte(pwdRef)) != 1 {
		return ErrPwdNotMatching
	}
	return nil
}
