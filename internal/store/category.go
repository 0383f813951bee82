// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taxonomy/internal/models"
)

const categoryColumns = `id, category_set_id, name, name_key, description, locale, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.CategorySetID, &c.Name, &c.NameKey,
		&c.Description, &c.Locale, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// scanCategories drains rows into a slice. It never returns a nil slice.
func scanCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// CreateCategory inserts a new category and returns it.
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO categories (category_set_id, name, name_key, description, locale)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.CategorySetID, c.Name, c.NameKey, c.Description, c.Locale,
	)
	created, err := scanCategory(row)
	if err != nil {
		return nil, duplicateOr(err, "name", "create category")
	}
	return created, nil
}

// FindCategoryByID retrieves a category by ID. Returns nil if not found.
func (s *Store) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindCategoriesByKey returns all locale variants of a name key in a set, oldest first.
func (s *Store) FindCategoriesByKey(ctx context.Context, setID uuid.UUID, nameKey string) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE category_set_id = $1 AND name_key = $2
		ORDER BY created_at, id
	`, setID, nameKey)
	if err != nil {
		return nil, fmt.Errorf("find categories by key: %w", err)
	}
	return scanCategories(rows)
}

// ListCategories returns a set's categories ordered by name. A non-empty
// locale keeps only that locale and locale-neutral categories.
func (s *Store) ListCategories(ctx context.Context, setID uuid.UUID, locale string) ([]models.Category, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if locale == "" {
		rows, err = s.q.QueryContext(ctx, `
			SELECT `+categoryColumns+`
			FROM categories
			WHERE category_set_id = $1
			ORDER BY name, locale
		`, setID)
	} else {
		rows, err = s.q.QueryContext(ctx, `
			SELECT `+categoryColumns+`
			FROM categories
			WHERE category_set_id = $1 AND locale IN ($2, '')
			ORDER BY name, locale
		`, setID, locale)
	}
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return scanCategories(rows)
}

// DeleteCategory removes a category by ID. Relations go with it (ON DELETE CASCADE).
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// FilterCategories returns the categories matching every filter, ordered by name.
func (s *Store) FilterCategories(ctx context.Context, filters models.Filters) ([]models.Category, error) {
	where, err := buildWhere(categoryFilters, filters)
	if err != nil {
		return nil, err
	}
	query := psql.Select(categoryColumns).From("categories").OrderBy("name", "locale")
	if where != nil {
		query = query.Where(where)
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category filter: %w", err)
	}

	rows, err := s.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("filter categories: %w", err)
	}
	return scanCategories(rows)
}
