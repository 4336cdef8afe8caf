package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/InkwellHQ/inkwell-backend/internal/crypt"
	"github.com/InkwellHQ/inkwell-backend/internal/db"
	"github.com/InkwellHQ/inkwell-backend/internal/middleware"
	"github.com/InkwellHQ/inkwell-backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if payload.Email == "" || payload.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	// Check if email is taken
	var existing Author
	err := db.DB.First(&existing, "email = ?", payload.Email).Error
	if err == nil {
		http.Error(w, "Author with the given email already exists", http.StatusConflict)
		return
	}

	author := Author{
		Name:         payload.Name,
		Email:        payload.Email,
		PasswordSalt: uuid.NewString(),
		TokenSalt:    uuid.NewString(),
	}

	hashed, err := crypt.HashPwd(secrets.PwdKey, payload.Password, author.PasswordSalt)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	author.PasswordHash = &hashed

	if err := db.DB.Create(&author).Error; err != nil {
		// Two signups can pass the lookup above before either row lands,
		// so the unique index is the real arbiter.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			http.Error(w, "Author with the given email already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create author", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"id":    author.ID,
		"name":  author.Name,
		"email": author.Email,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	// Every login failure reads the same from outside so requests can't
	// probe which emails exist.
	var author Author
	err := db.DB.First(&author, "email = ?", payload.Email).Error
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if author.PasswordHash == nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	err = crypt.ValidatePwd(secrets.PwdKey, payload.Password, author.PasswordSalt, *author.PasswordHash)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := crypt.GenerateToken(author.Email, secrets.TokenDurationSec, author.TokenSalt, secrets.TokenKey)
	if err != nil {
		http.Error(w, "Server error issuing session", http.StatusInternalServerError)
		return
	}
	middleware.SetTokenCookie(w, token.String())

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Login successful")
}

func LogoffHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Logoff bool `json:"logoff"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if payload.Logoff {
		middleware.ClearTokenCookie(w)
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logged off successfully")
}

// AuthorResponse is the public view of an author. Credential fields never
// leave this package.
type AuthorResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ListAuthorsHandler(w http.ResponseWriter, r *http.Request) {
	var authors []Author

	if err := db.DB.Order("id").Find(&authors).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		response = append(response, AuthorResponse{ID: a.ID, Name: a.Name, Email: a.Email})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func GetAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid author id", http.StatusBadRequest)
		return
	}

	var author Author
	if err := db.DB.First(&author, "id = ?", id).Error; err != nil {
		http.Error(w, "Author not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AuthorResponse{ID: author.ID, Name: author.Name, Email: author.Email})
}

type MeResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var author Author
	if err := db.DB.First(&author, "id = ?", id.UserID()).Error; err != nil {
		http.Error(w, "Couldn't find author", http.StatusNotFound)
		return
	}

	response := MeResponse{
		ID:    author.ID,
		Name:  author.Name,
		Email: author.Email,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	// Middleware already checked the session; we still verify the current
	// password before storing a new hash.

	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	id, err := utils.RequireIdentity(r.Context())
	if err != nil {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	var author Author
	if err := db.DB.First(&author, "id = ?", id.UserID()).Error; err != nil {
		http.Error(w, "Couldn't find author", http.StatusUnauthorized)
		return
	}

	if author.PasswordHash == nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}
	err = crypt.ValidatePwd(secrets.PwdKey, payload.CurrentPassword, author.PasswordSalt, *author.PasswordHash)
	if err != nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	hashed, err := crypt.HashPwd(secrets.PwdKey, payload.NewPassword, author.PasswordSalt)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	if err := db.DB.Model(&author).Update("password_hash", hashed).Error; err != nil {
		http.Error(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}
