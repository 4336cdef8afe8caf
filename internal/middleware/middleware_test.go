package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/InkwellHQ/inkwell-backend/internal/config"
	"github.com/InkwellHQ/inkwell-backend/internal/crypt"
	"github.com/InkwellHQ/inkwell-backend/internal/middleware"
	"github.com/InkwellHQ/inkwell-backend/internal/utils"
	"gorm.io/gorm"
)

var testSecrets = &config.Secrets{
	TokenKey:         []byte("token-key-0123456789abcdef0123456789abcdef0123456789abcdef012345"),
	PwdKey:           []byte("pwd-key-0123456789abcdef0123456789abcdef0123456789abcdef01234567"),
	TokenDurationSec: 60,
}

// mockFetcher implements middleware.AuthorFetcher without any database dependency.
type mockFetcher struct {
	author middleware.AuthorData
	err    error
}

func (m mockFetcher) FindAuthorByEmail(email string) (middleware.AuthorData, error) {
	return m.author, m.err
}

// resolve wraps an inner handler that echoes the stored identity result,
// optionally setting one cookie on the request, and returns the recorded
// response plus the result the resolver stored.
func resolve(t *testing.T, fetcher middleware.AuthorFetcher, cookieValue string) (*httptest.ResponseRecorder, utils.IdentityResult) {
	t.Helper()

	var got utils.IdentityResult
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := utils.IdentityResultFromContext(r.Context())
		if !ok {
			t.Fatal("resolver stored no identity result")
		}
		got = res
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.IdentityResolver(fetcher, testSecrets)(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AuthTokenCookie, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, got
}

// clearedCookie reports whether the response clears the auth token cookie.
func clearedCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthTokenCookie && c.Value == "" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

// reissuedCookie returns the value of a fresh (non-clearing) auth token
// cookie, if any.
func reissuedCookie(rec *httptest.ResponseRecorder) string {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.AuthTokenCookie && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

// TestIdentityResolver_NoCookie verifies that an anonymous request resolves
// to a stored failure without touching the (non-existent) cookie.
func TestIdentityResolver_NoCookie(t *testing.T) {
	rec, res := resolve(t, mockFetcher{}, "")

	if !errors.Is(res.Err, middleware.ErrTokenNotInCookie) {
		t.Errorf("expected ErrTokenNotInCookie, got %v", res.Err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Errorf("expected no Set-Cookie for an anonymous request, got %v", rec.Result().Cookies())
	}
	if rec.Code != http.StatusOK {
		t.Errorf("resolver must not fail the request itself, got %d", rec.Code)
	}
}

// TestIdentityResolver_GarbageToken verifies that a malformed cookie resolves
// to a failure and the cookie gets cleared.
func TestIdentityResolver_GarbageToken(t *testing.T) {
	rec, res := resolve(t, mockFetcher{}, "not-a-token")

	if !errors.Is(res.Err, middleware.ErrTokenWrongFormat) {
		t.Errorf("expected ErrTokenWrongFormat, got %v", res.Err)
	}
	if !clearedCookie(rec) {
		t.Error("expected the auth token cookie to be cleared")
	}
}

// TestIdentityResolver_UnknownAuthor verifies the user-not-found path.
func TestIdentityResolver_UnknownAuthor(t *testing.T) {
	token, err := crypt.GenerateToken("ghost@mail.com", 60, "salt", testSecrets.TokenKey)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	fetcher := mockFetcher{err: gorm.ErrRecordNotFound}
	rec, res := resolve(t, fetcher, token.String())

	if !errors.Is(res.Err, middleware.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", res.Err)
	}
	if !clearedCookie(rec) {
		t.Error("expected the auth token cookie to be cleared")
	}
}

// TestIdentityResolver_FetcherError verifies that persistence failures are
// wrapped as model-access errors, not swallowed.
func TestIdentityResolver_FetcherError(t *testing.T) {
	token, err := crypt.GenerateToken("author@mail.com", 60, "salt", testSecrets.TokenKey)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	fetcher := mockFetcher{err: errors.New("connection refused")}
	_, res := resolve(t, fetcher, token.String())

	if !errors.Is(res.Err, middleware.ErrModelAccess) {
		t.Errorf("expected ErrModelAccess, got %v", res.Err)
	}
}

// TestIdentityResolver_ForgedToken verifies that a token signed under the
// wrong salt fails validation and clears the cookie.
func TestIdentityResolver_ForgedToken(t *testing.T) {
	token, err := crypt.GenerateToken("author@mail.com", 60, "attacker-salt", testSecrets.TokenKey)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	fetcher := mockFetcher{author: middleware.AuthorData{ID: 7, Email: "author@mail.com", TokenSalt: "real-salt"}}
	rec, res := resolve(t, fetcher, token.String())

	if !errors.Is(res.Err, crypt.ErrTokenSignatureNotMatching) {
		t.Errorf("expected wrapped ErrTokenSignatureNotMatching, got %v", res.Err)
	}
	if !clearedCookie(rec) {
		t.Error("expected the auth token cookie to be cleared")
	}
}

// TestIdentityResolver_ValidToken verifies the happy path: identity in
// context and a rolling re-issued cookie.
func TestIdentityResolver_ValidToken(t *testing.T) {
	const salt = "real-salt"
	token, err := crypt.GenerateToken("author@mail.com", 60, salt, testSecrets.TokenKey)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	fetcher := mockFetcher{author: middleware.AuthorData{ID: 7, Email: "author@mail.com", TokenSalt: salt}}
	rec, res := resolve(t, fetcher, token.String())

	if res.Err != nil {
		t.Fatalf("expected successful resolution, got %v", res.Err)
	}
	if res.Identity.UserID() != 7 {
		t.Errorf("identity: got user %d, want 7", res.Identity.UserID())
	}

	fresh := reissuedCookie(rec)
	if fresh == "" {
		t.Fatal("expected a re-issued auth token cookie")
	}
	parsed, err := crypt.ParseToken(fresh)
	if err != nil {
		t.Fatalf("re-issued token does not parse: %v", err)
	}
	if err := crypt.ValidateToken(parsed, salt, testSecrets.TokenKey); err != nil {
		t.Errorf("re-issued token does not validate: %v", err)
	}
}

// TestIdentityResolver_CorruptAuthorID verifies that a row with a zero id
// fails identity construction, clears the session, and never hands back a
// renewed token alongside the clearing cookie.
func TestIdentityResolver_CorruptAuthorID(t *testing.T) {
	const salt = "real-salt"
	token, err := crypt.GenerateToken("author@mail.com", 60, salt, testSecrets.TokenKey)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	fetcher := mockFetcher{author: middleware.AuthorData{ID: 0, Email: "author@mail.com", TokenSalt: salt}}
	rec, res := resolve(t, fetcher, token.String())

	if !errors.Is(res.Err, middleware.ErrIdentityCreateFail) {
		t.Errorf("expected ErrIdentityCreateFail, got %v", res.Err)
	}
	if !clearedCookie(rec) {
		t.Error("expected the auth token cookie to be cleared")
	}
	if fresh := reissuedCookie(rec); fresh != "" {
		t.Errorf("expected no re-issued cookie next to the clearing one, got %q", fresh)
	}
}

// TestRequireIdentity verifies that handlers behind the gate see a uniform
// 401 for any resolution failure, and pass through on success.
func TestRequireIdentity(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireIdentity(inner)

	// No resolver ran at all.
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without resolver, got %d", rec.Code)
	}

	// Resolver stored a failure.
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	ctx := utils.WithIdentityResult(req.Context(), utils.IdentityResult{Err: middleware.ErrTokenNotInCookie})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for stored failure, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not authenticated") {
		t.Errorf("expected uniform body, got %q", rec.Body.String())
	}
}

// TestLoginRateLimiter verifies the burst is honored and the limiter kicks
// in afterwards.
func TestLoginRateLimiter(t *testing.T) {
	limiter := middleware.NewLoginRateLimiter(1, 2)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := limiter.Middleware(inner)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:4411"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request limited, got %v", codes)
	}

	// A different IP gets its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "198.51.100.7:4411"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected fresh IP to pass, got %d", rec.Code)
	}
}
