package auth

import (
	"log"

	"github.com/InkwellHQ/inkwell-backend/internal/config"
	"github.com/InkwellHQ/inkwell-backend/internal/db"
)

// secrets is injected once from main via Init and read-only afterwards.
var secrets *config.Secrets

func Init(s *config.Secrets) {
	secrets = s

	if err := db.EnsureSchema(db.DB, "app_auth"); err != nil {
		log.Fatal("Failed to ensure schema app_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&Author{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
