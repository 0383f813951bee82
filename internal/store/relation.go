// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taxonomy/internal/models"
)

// FieldCategories returns the categories attached to an entity field,
// ordered by relation position.
func (s *Store) FieldCategories(ctx context.Context, ref models.EntityRef, field string) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT c.id, c.category_set_id, c.name, c.name_key, c.description, c.locale,
		       c.created_at, c.updated_at
		FROM categories c
		JOIN category_relations r ON r.category_id = c.id
		WHERE r.related_object_type = $1 AND r.related_object_id = $2 AND r.field_name = $3
		ORDER BY r.position ASC
	`, ref.Type, ref.ID, field)
	if err != nil {
		return nil, fmt.Errorf("list field categories: %w", err)
	}
	return scanCategories(rows)
}

// NextPosition returns the position for the next relation of an entity field.
func (s *Store) NextPosition(ctx context.Context, ref models.EntityRef, field string) (int, error) {
	var maxPos sql.NullInt64
	err := s.q.QueryRowContext(ctx, `
		SELECT MAX(position) FROM category_relations
		WHERE related_object_type = $1 AND related_object_id = $2 AND field_name = $3
	`, ref.Type, ref.ID, field).Scan(&maxPos)
	if err != nil {
		return 0, fmt.Errorf("next relation position: %w", err)
	}
	if maxPos.Valid {
		return int(maxPos.Int64) + 1, nil
	}
	return 0, nil
}

// LockField takes a transaction scoped advisory lock on an entity field.
// Outside a transaction the lock is released as soon as it is taken.
func (s *Store) LockField(ctx context.Context, ref models.EntityRef, field string) error {
	key := ref.Type + "\x00" + ref.ID + "\x00" + field
	if _, err := s.q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock entity field: %w", err)
	}
	return nil
}

// CreateRelation inserts a relation. A repeated (entity, category, field)
// is reported as a duplicate.
func (s *Store) CreateRelation(ctx context.Context, rel *models.CategoryRelation) (*models.CategoryRelation, error) {
	out := *rel
	err := s.q.QueryRowContext(ctx, `
		INSERT INTO category_relations
			(related_object_type, related_object_id, category_id, field_name, position)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rel.Entity.Type, rel.Entity.ID, rel.CategoryID, rel.FieldName, rel.Position,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, duplicateOr(err, "category_id", "create category relation")
	}
	return &out, nil
}

// DeleteRelation removes one relation and reports whether it existed.
func (s *Store) DeleteRelation(ctx context.Context, ref models.EntityRef, field string, categoryID uuid.UUID) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM category_relations
		WHERE related_object_type = $1 AND related_object_id = $2
		  AND field_name = $3 AND category_id = $4
	`, ref.Type, ref.ID, field, categoryID)
	if err != nil {
		return false, fmt.Errorf("delete category relation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category relation: %w", err)
	}
	return n > 0, nil
}

// DeleteFieldRelations removes every relation of an entity field.
func (s *Store) DeleteFieldRelations(ctx context.Context, ref models.EntityRef, field string) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM category_relations
		WHERE related_object_type = $1 AND related_object_id = $2 AND field_name = $3
	`, ref.Type, ref.ID, field)
	if err != nil {
		return 0, fmt.Errorf("delete field relations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete field relations: %w", err)
	}
	return n, nil
}

// DeleteEntityRelations removes every relation of an entity, across fields.
func (s *Store) DeleteEntityRelations(ctx context.Context, ref models.EntityRef) (int64, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM category_relations
		WHERE related_object_type = $1 AND related_object_id = $2
	`, ref.Type, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("delete entity relations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete entity relations: %w", err)
	}
	return n, nil
}

// EntityIDsWithCategories returns the distinct ids of entityType records
// whose field carries any of categoryIDs.
func (s *Store) EntityIDsWithCategories(ctx context.Context, entityType, field string, categoryIDs []uuid.UUID) ([]string, error) {
	ids := make([]string, len(categoryIDs))
	for i, id := range categoryIDs {
		ids[i] = id.String()
	}

	sqlStr, args, err := psql.Select("DISTINCT related_object_id").
		From("category_relations").
		Where(sq.Eq{
			"related_object_type": entityType,
			"field_name":          field,
			"category_id":         ids,
		}).
		OrderBy("related_object_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tagged entities query: %w", err)
	}

	rows, err := s.q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("find tagged entities: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tagged entity: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
