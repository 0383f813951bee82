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

const setColumns = `id, name, key, is_editable, created_at, updated_at`

// scanSet scans a row into a CategorySet struct.
func scanSet(row scanner) (*models.CategorySet, error) {
	var s models.CategorySet
	if err := row.Scan(&s.ID, &s.Name, &s.Key, &s.IsEditable, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSet inserts a new category set and returns it.
func (s *Store) CreateSet(ctx context.Context, set *models.CategorySet) (*models.CategorySet, error) {
	row := s.q.QueryRowContext(ctx, `
		INSERT INTO category_sets (name, key, is_editable)
		VALUES ($1, $2, $3)
		RETURNING `+setColumns,
		set.Name, set.Key, set.IsEditable,
	)
	created, err := scanSet(row)
	if err != nil {
		return nil, duplicateOr(err, "key", "create category set")
	}
	return created, nil
}

// FindSetByID retrieves a set by ID. Returns nil if not found.
func (s *Store) FindSetByID(ctx context.Context, id uuid.UUID) (*models.CategorySet, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+setColumns+` FROM category_sets WHERE id = $1`, id)
	set, err := scanSet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category set by id: %w", err)
	}
	return set, nil
}

// FindSetByKey retrieves a set by its unique key. Returns nil if not found.
func (s *Store) FindSetByKey(ctx context.Context, key string) (*models.CategorySet, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+setColumns+` FROM category_sets WHERE key = $1`, key)
	set, err := scanSet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category set by key: %w", err)
	}
	return set, nil
}

// UpdateSetEditable sets the is_editable flag of a set.
func (s *Store) UpdateSetEditable(ctx context.Context, id uuid.UUID, editable bool) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE category_sets SET is_editable = $1, updated_at = NOW()
		WHERE id = $2
	`, editable, id)
	if err != nil {
		return fmt.Errorf("update category set: %w", err)
	}
	return nil
}

// DeleteSet removes a set. Categories and relations go with it (ON DELETE CASCADE).
func (s *Store) DeleteSet(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM category_sets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category set: %w", err)
	}
	return nil
}

// FilterSets returns the sets matching every filter, ordered by name.
func (s *Store) FilterSets(ctx context.Context, filters models.Filters) ([]models.CategorySet, error) {
	where, err := buildWhere(setFilters, filters)
	if err != nil {
		return nil, err
	}
	query := psql.Select(setColumns).From("category_sets").OrderBy("name")
	if where != nil {
		query = query.Where(where)
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category set filter: %w", err)
	}

	rows, err := s.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("filter category sets: %w", err)
	}
	defer rows.Close()

	items := []models.CategorySet{}
	for rows.Next() {
		set, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category set: %w", err)
		}
		items = append(items, *set)
	}
	return items, rows.Err()
}
