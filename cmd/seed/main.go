// Command seed populates a dev database from a YAML fixture file: authors
// with working passwords, their posts, and pending edit proposals.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/InkwellHQ/inkwell-backend/internal/auth"
	"github.com/InkwellHQ/inkwell-backend/internal/blog"
	"github.com/InkwellHQ/inkwell-backend/internal/config"
	"github.com/InkwellHQ/inkwell-backend/internal/crypt"
	"github.com/InkwellHQ/inkwell-backend/internal/db"
	"github.com/InkwellHQ/inkwell-backend/internal/identity"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	fixturesPath = flag.String("fixtures", "cmd/seed/dev_fixtures.yaml", "Path to the YAML fixture file")
	dsn          = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	reset        = flag.Bool("reset", false, "Drop the app_auth and blog schemas before seeding")
	confirm      = flag.Bool("confirm", false, "Required together with --reset")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *reset {
		if !*confirm {
			log.Fatal("--reset is destructive; pass --confirm to proceed")
		}
		if err := dropSchemas(*dsn); err != nil {
			log.Fatal("Reset failed: ", err)
		}
		log.Println("Dropped schemas app_auth and blog")
	}

	secrets := config.Load()
	db.Connect()
	auth.Init(secrets)
	blog.Init()

	fx, err := loadFixtures(*fixturesPath)
	if err != nil {
		log.Fatal("Loading fixtures failed: ", err)
	}

	if err := seedAll(secrets, fx); err != nil {
		log.Fatal("Seeding failed: ", err)
	}
	log.Println("Seeding complete")
}

// dropSchemas uses a raw database/sql connection so a broken gorm schema
// state can't get in the way of the reset.
func dropSchemas(dsn string) error {
	if dsn == "" {
		return fmt.Errorf("--dsn not provided and DATABASE_URL not set")
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, schema := range []string{"blog", "app_auth"} {
		if _, err := conn.Exec(`DROP SCHEMA IF EXISTS "` + schema + `" CASCADE`); err != nil {
			return err
		}
	}
	return nil
}

func seedAll(secrets *config.Secrets, fx Fixtures) error {
	authorsByEmail := make(map[string]auth.Author)
	postsBySlug := make(map[string]blog.Post)

	for _, a := range fx.Authors {
		author := auth.Author{
			Name:         a.Name,
			Email:        a.Email,
			PasswordSalt: uuid.NewString(),
			TokenSalt:    uuid.NewString(),
		}
		hashed, err := crypt.HashPwd(secrets.PwdKey, a.Password, author.PasswordSalt)
		if err != nil {
			return fmt.Errorf("hashing password for %s: %w", a.Email, err)
		}
		author.PasswordHash = &hashed

		if err := db.DB.Create(&author).Error; err != nil {
			return fmt.Errorf("creating author %s: %w", a.Email, err)
		}
		authorsByEmail[author.Email] = author
	}

	for _, p := range fx.Posts {
		author, ok := authorsByEmail[p.Author]
		if !ok {
			return fmt.Errorf("post %q references unknown author %s", p.Title, p.Author)
		}
		post := blog.Post{
			AuthorID: author.ID,
			Title:    p.Title,
			Slug:     blog.Slugify(p.Title),
			Content:  p.Content,
			Tags:     p.Tags,
		}
		if err := db.DB.Create(&post).Error; err != nil {
			return fmt.Errorf("creating post %q: %w", p.Title, err)
		}
		postsBySlug[post.Slug] = post
	}

	engine := blog.WorkflowEngine()
	root := identity.Root()

	for _, e := range fx.Edits {
		editor, ok := authorsByEmail[e.Editor]
		if !ok {
			return fmt.Errorf("edit references unknown editor %s", e.Editor)
		}
		post, ok := postsBySlug[e.Post]
		if !ok {
			return fmt.Errorf("edit references unknown post slug %s", e.Post)
		}

		who, err := identity.New(editor.ID)
		if err != nil {
			return fmt.Errorf("identity for editor %s: %w", e.Editor, err)
		}
		edit, err := engine.Create(who, post.ID, e.NewContent)
		if err != nil {
			return fmt.Errorf("creating edit on %s: %w", e.Post, err)
		}

		// Read back under the root principal to confirm the proposal landed.
		seeded, err := engine.Get(root, edit.ID)
		if err != nil {
			return fmt.Errorf("verifying edit %d: %w", edit.ID, err)
		}
		log.Printf("Seeded edit %d on %s (%s)", seeded.ID, e.Post, seeded.Status)
	}

	return nil
}
