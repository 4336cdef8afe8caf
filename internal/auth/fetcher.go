package auth

import (
	"github.com/InkwellHQ/inkwell-backend/internal/db"
	"github.com/InkwellHQ/inkwell-backend/internal/middleware"
)

// AuthorInfo satisfies middleware.AuthorFetcher against the authors table.
type AuthorInfo struct{}

func (ai AuthorInfo) FindAuthorByEmail(email string) (middleware.AuthorData, error) {
	var author Author

	err := db.DB.First(&author, "email = ?", email).Error
	if err != nil {
		return middleware.AuthorData{}, err
	}

	return middleware.AuthorData{
		ID:        author.ID,
		Email:     author.Email,
		TokenSalt: author.TokenSalt,
	}, nil
}
