package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"taxonomy/internal/normalize"
)

// seedSet describes a development category set and its initial categories.
type seedSet struct {
	name       string
	key        string
	editable   bool
	categories []string
}

var devSets = []seedSet{
	{name: "Tags", key: "tags", editable: true},
	{name: "Cities", key: "cities", editable: false, categories: []string{
		"Berlin", "Bucharest", "Lisbon", "Paris",
	}},
	{name: "Genres", key: "genres", editable: true, categories: []string{
		"Fiction", "History", "Science",
	}},
}

// Seed populates the database with initial development data.
// It creates the development category sets if none exist.
func Seed(db *sql.DB) error {
	// Check if any sets exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM category_sets").Scan(&count); err != nil {
		return fmt.Errorf("seed check category sets: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for _, s := range devSets {
		var setID string
		err := tx.QueryRow(`
			INSERT INTO category_sets (name, key, is_editable)
			VALUES ($1, $2, $3)
			RETURNING id
		`, s.name, s.key, s.editable).Scan(&setID)
		if err != nil {
			return fmt.Errorf("seed insert set %s: %w", s.key, err)
		}

		for _, name := range s.categories {
			_, err := tx.Exec(`
				INSERT INTO categories (category_set_id, name, name_key)
				VALUES ($1, $2, $3)
			`, setID, normalize.Name(name), normalize.Key(name))
			if err != nil {
				return fmt.Errorf("seed insert category %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development category sets", "sets", len(devSets))
	return nil
}
