package auth

import (
	"net/http"

	"github.com/InkwellHQ/inkwell-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	// 5 credential attempts per IP, refilling one per second.
	limiter := middleware.NewLoginRateLimiter(1, 5)

	r.With(limiter.Middleware).Post("/signup", SignupHandler)
	r.With(limiter.Middleware).Post("/login", LoginHandler)
	r.Post("/logoff", LogoffHandler)

	r.Get("/authors", ListAuthorsHandler)
	r.Get("/authors/{id}", GetAuthorHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIdentity)
		r.Get("/me", MeHandler)
		r.Post("/update-password", UpdatePasswordHandler)
	})

	return r
}
