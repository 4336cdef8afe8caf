package crypt_test

import (
	"testing"
	"time"

	"github.com/InkwellHQ/inkwell-backend/internal/crypt"
)

func TestParseToken_Fixed(t *testing.T) {
	t.Parallel()

	// "fx-ident-01" / "2023-05-17T15:30:00Z" base64url-encoded by hand.
	tokenStr := "ZngtaWRlbnQtMDE.MjAyMy0wNS0xN1QxNTozMDowMFo.some-sign-b64u-encoded"

	tok, err := crypt.ParseToken(tokenStr)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if tok.Ident != "fx-ident-01" {
		t.Errorf("ident: got %q", tok.Ident)
	}
	if tok.Exp != "2023-05-17T15:30:00Z" {
		t.Errorf("exp: got %q", tok.Exp)
	}
	if tok.SignB64u != "some-sign-b64u-encoded" {
		t.Errorf("sign: got %q", tok.SignB64u)
	}
	if tok.String() != tokenStr {
		t.Errorf("round trip failed: got %q", tok.String())
	}
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"no dots", "justonepart", crypt.ErrTokenInvalidFormat},
		{"two parts", "YQ.YQ", crypt.ErrTokenInvalidFormat},
		{"four parts", "YQ.YQ.YQ.YQ", crypt.ErrTokenInvalidFormat},
		{"bad ident b64", "!!!.YQ.sig", crypt.ErrTokenCannotDecodeIdent},
		{"bad exp b64", "YQ.!!!.sig", crypt.ErrTokenCannotDecodeExp},
	}
	for _, tc := range cases {
		if _, err := crypt.ParseToken(tc.token); err != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	t.Parallel()

	tok, err := crypt.GenerateToken("author@mail.com", 60, "pepper", testKey)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	parsed, err := crypt.ParseToken(tok.String())
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if parsed != tok {
		t.Errorf("round trip mismatch: %+v vs %+v", parsed, tok)
	}
}

func TestValidateToken_Ok(t *testing.T) {
	t.Parallel()

	tok, err := crypt.GenerateToken("user_one", 0.02, "pepper", testKey) // 20ms
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if err := crypt.ValidateToken(tok, "pepper", testKey); err != nil {
		t.Errorf("expected token still valid, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := crypt.GenerateToken("user_one", 0.01, "pepper", testKey) // 10ms
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if err := crypt.ValidateToken(tok, "pepper", testKey); err != crypt.ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_SignatureMismatch(t *testing.T) {
	t.Parallel()

	tok, err := crypt.GenerateToken("user_one", 60, "pepper", testKey)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	// Wrong salt: the signature check must fail before expiry is considered.
	if err := crypt.ValidateToken(tok, "other-pepper", testKey); err != crypt.ErrTokenSignatureNotMatching {
		t.Errorf("expected ErrTokenSignatureNotMatching, got %v", err)
	}

	// Tampered expiry on an otherwise well-signed token.
	tampered := tok
	tampered.Exp = "2999-01-01T00:00:00Z"
	if err := crypt.ValidateToken(tampered, "pepper", testKey); err != crypt.ErrTokenSignatureNotMatching {
		t.Errorf("expected ErrTokenSignatureNotMatching for tampered exp, got %v", err)
	}
}

func TestValidateToken_ExpNotParseable(t *testing.T) {
	t.Parallel()

	tok := crypt.Token{Ident: "user_one", Exp: "not-a-timestamp"}
	sign, err := crypt.SignB64u(testKey, signContent(tok), "pepper")
	if err != nil {
		t.Fatalf("SignB64u error: %v", err)
	}
	tok.SignB64u = sign

	if err := crypt.ValidateToken(tok, "pepper", testKey); err != crypt.ErrTokenExpNotParseable {
		t.Errorf("expected ErrTokenExpNotParseable, got %v", err)
	}
}

// signContent rebuilds the signed portion of the wire form (everything
// before the last dot).
func signContent(tok crypt.Token) string {
	s := tok.String()
	return s[:len(s)-1] // SignB64u is empty, s ends with the trailing dot
}
