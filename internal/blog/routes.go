package blog

import (
	"net/http"

	"github.com/InkwellHQ/inkwell-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/posts", ListPostsHandler)
	r.Get("/posts/{id}", GetPostHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireIdentity)
		r.Post("/posts", CreatePostHandler)
		r.Patch("/posts/{id}", UpdatePostHandler)
		r.Delete("/posts/{id}", DeletePostHandler)

		r.Post("/edits", CreateEditHandler)
		r.Get("/edits/outgoing", OutgoingEditsHandler)
		r.Get("/edits/incoming", IncomingEditsHandler)
		r.Get("/edits/{id}", GetEditHandler)
		r.Patch("/edits/{id}", UpdateEditHandler)
		r.Delete("/edits/{id}", DeleteEditHandler)
		r.Post("/edits/{id}/accept", AcceptEditHandler)
		r.Post("/edits/{id}/reject", RejectEditHandler)
	})

	return r
}
