package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

// Standalone migration runner for deploy pipelines, where running the API
// binary just to migrate is not an option. Tracks applied migrations in the
// same schema_migrations table the API's startup migrator uses.
func main() {
	rollback := flag.Bool("rollback", false, "Roll back the most recently applied migration")
	dir := flag.String("dir", "migrations", "Directory containing migration files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		log.Fatalf("failed to create schema_migrations table: %v", err)
	}

	if *rollback {
		if err := rollbackLast(db, *dir); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := applyAll(db, *dir); err != nil {
		log.Fatal(err)
	}
	fmt.Println("All migrations applied.")
}

func applyAll(db *sql.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".sql") && !strings.HasSuffix(name, "_rollback.sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, file := range files {
		var applied bool
		err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", file).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			fmt.Printf("Skipping %s (already applied)\n", file)
			continue
		}

		content, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", file); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", file, err)
		}
		fmt.Printf("Applied %s\n", file)
	}

	return nil
}

func rollbackLast(db *sql.DB, dir string) error {
	var last string
	err := db.QueryRow("SELECT name FROM schema_migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&last)
	if err == sql.ErrNoRows {
		return fmt.Errorf("no migrations to roll back")
	}
	if err != nil {
		return fmt.Errorf("failed to find last migration: %w", err)
	}

	rollbackFile := strings.TrimSuffix(last, ".sql") + "_rollback.sql"
	content, err := os.ReadFile(filepath.Join(dir, rollbackFile))
	if err != nil {
		return fmt.Errorf("failed to read rollback file %s: %w", rollbackFile, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute rollback %s: %w", rollbackFile, err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE name = $1", last); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to remove migration record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rollback: %w", err)
	}

	fmt.Printf("Rolled back %s\n", last)
	return nil
}
