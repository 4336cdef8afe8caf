package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/InkwellHQ/inkwell-backend/internal/config"
	"github.com/InkwellHQ/inkwell-backend/internal/crypt"
	"github.com/InkwellHQ/inkwell-backend/internal/identity"
	"github.com/InkwellHQ/inkwell-backend/internal/utils"
	"gorm.io/gorm"
)

// AuthTokenCookie is the cookie carrying the session token.
const AuthTokenCookie = "auth-token"

// Resolver failure kinds. They stay internal to the middleware layer;
// handlers only ever see utils.ErrNotAuthenticated.
var (
	ErrTokenNotInCookie   = errors.New("no auth token cookie")
	ErrTokenWrongFormat   = errors.New("auth token has wrong format")
	ErrUserNotFound       = errors.New("auth token identifier matches no author")
	ErrModelAccess        = errors.New("author lookup failed")
	ErrIdentityCreateFail = errors.New("could not create identity for author")
)

// AuthorData is the credential record slice the resolver needs.
type AuthorData struct {
	ID        int64
	Email     string
	TokenSalt string
}

// AuthorFetcher looks up the credential record for a token identifier.
// Implemented by auth.AuthorInfo; tests substitute a mock.
type AuthorFetcher interface {
	FindAuthorByEmail(email string) (AuthorData, error)
}

// IdentityResolver resolves the session cookie into an identity once per
// request and stores the result in the request context. It never fails the
// request itself; handlers that need identity opt in via RequireIdentity.
//
// On success a fresh token is re-issued so the session expiry slides forward
// with every authenticated request. On any failure other than plain cookie
// absence the cookie is cleared, so clients don't keep retrying a corrupt or
// expired token.
func IdentityResolver(fetcher AuthorFetcher, secrets *config.Secrets) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := resolveIdentity(w, r, fetcher, secrets)

			if res.Err != nil && !errors.Is(res.Err, ErrTokenNotInCookie) {
				ClearTokenCookie(w)
			}

			ctx := utils.WithIdentityResult(r.Context(), res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveIdentity(w http.ResponseWriter, r *http.Request, fetcher AuthorFetcher, secrets *config.Secrets) utils.IdentityResult {
	cookie, err := r.Cookie(AuthTokenCookie)
	if err != nil {
		return utils.IdentityResult{Err: ErrTokenNotInCookie}
	}

	token, err := crypt.ParseToken(cookie.Value)
	if err != nil {
		return utils.IdentityResult{Err: fmt.Errorf("%w: %v", ErrTokenWrongFormat, err)}
	}

	// Authentication bootstraps here: the lookup itself needs no caller
	// identity, it runs under the implicit root scope.
	author, err := fetcher.FindAuthorByEmail(token.Ident)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.IdentityResult{Err: ErrUserNotFound}
		}
		return utils.IdentityResult{Err: fmt.Errorf("%w: %v", ErrModelAccess, err)}
	}

	if err := crypt.ValidateToken(token, author.TokenSalt, secrets.TokenKey); err != nil {
		return utils.IdentityResult{Err: fmt.Errorf("token validation failed: %w", err)}
	}

	// Build the identity before renewing the cookie, so a failure here
	// clears the session instead of handing back a fresh token.
	id, err := identity.New(author.ID)
	if err != nil {
		return utils.IdentityResult{Err: fmt.Errorf("%w: %v", ErrIdentityCreateFail, err)}
	}

	// Rolling renewal: every authenticated request extends the session.
	fresh, err := crypt.GenerateToken(author.Email, secrets.TokenDurationSec, author.TokenSalt, secrets.TokenKey)
	if err != nil {
		return utils.IdentityResult{Err: fmt.Errorf("token renewal failed: %w", err)}
	}
	SetTokenCookie(w, fresh.String())

	return utils.IdentityResult{Identity: id}
}

// RequireIdentity rejects requests whose identity resolution failed. All
// resolver failure kinds collapse to a single 401 here.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := utils.RequireIdentity(r.Context()); err != nil {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func SetTokenCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthTokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

var allowed = map[string]struct{}{
	"http://localhost:5173":        {},
	"http://localhost:5174":        {},
	"https://inkwellhq.github.io":  {},
	"https://app.inkwell.press":    {},
	"https://editor.inkwell.press": {},
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		// Echo the origin back only if it’s on our allow-list
		if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin") // important for caches
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods",
				"GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				"Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
