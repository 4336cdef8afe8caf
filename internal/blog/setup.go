package blog

import (
	"log"

	"github.com/InkwellHQ/inkwell-backend/internal/db"
)

var engine *Engine

func Init() {
	if err := db.EnsureSchema(db.DB, "blog"); err != nil {
		log.Fatal("Failed to ensure schema blog: ", err)
	}

	if err := db.DB.AutoMigrate(&Post{}, &Edit{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}

	engine = NewEngine(NewGormStore(db.DB))
}

// WorkflowEngine exposes the shared engine to maintenance commands
// (cmd/seed) that operate outside the HTTP layer.
func WorkflowEngine() *Engine {
	return engine
}
