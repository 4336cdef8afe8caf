package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/InkwellHQ/inkwell-backend/internal/auth"
	"github.com/InkwellHQ/inkwell-backend/internal/blog"
	"github.com/InkwellHQ/inkwell-backend/internal/config"
	"github.com/InkwellHQ/inkwell-backend/internal/db"
	"github.com/InkwellHQ/inkwell-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	secrets := config.Load()
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init(secrets)
	blog.Init()

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Use(middleware.IdentityResolver(auth.AuthorInfo{}, secrets))
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/blog", blog.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
