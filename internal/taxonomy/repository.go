// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"

	"github.com/google/uuid"

	"taxonomy/internal/models"
)

// Repository is the persistence contract of the service. Find methods return
// (nil, nil) when nothing matches. Create methods return an error wrapping
// models.ErrDuplicate on a uniqueness violation.
type Repository interface {
	CreateSet(ctx context.Context, set *models.CategorySet) (*models.CategorySet, error)
	FindSetByID(ctx context.Context, id uuid.UUID) (*models.CategorySet, error)
	FindSetByKey(ctx context.Context, key string) (*models.CategorySet, error)
	UpdateSetEditable(ctx context.Context, id uuid.UUID, editable bool) error
	DeleteSet(ctx context.Context, id uuid.UUID) error
	FilterSets(ctx context.Context, filters models.Filters) ([]models.CategorySet, error)

	CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// FindCategoriesByKey returns every locale variant of a name key in a
	// set, oldest first.
	FindCategoriesByKey(ctx context.Context, setID uuid.UUID, nameKey string) ([]models.Category, error)
	// ListCategories returns a set's categories ordered by name. A non-empty
	// locale restricts the list to that locale and locale-neutral entries.
	ListCategories(ctx context.Context, setID uuid.UUID, locale string) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	FilterCategories(ctx context.Context, filters models.Filters) ([]models.Category, error)

	// FieldCategories returns the categories of an entity field ordered by
	// relation position.
	FieldCategories(ctx context.Context, ref models.EntityRef, field string) ([]models.Category, error)
	NextPosition(ctx context.Context, ref models.EntityRef, field string) (int, error)
	// LockField serializes writers of one entity field until the enclosing
	// Atomic call returns.
	LockField(ctx context.Context, ref models.EntityRef, field string) error
	CreateRelation(ctx context.Context, rel *models.CategoryRelation) (*models.CategoryRelation, error)
	DeleteRelation(ctx context.Context, ref models.EntityRef, field string, categoryID uuid.UUID) (bool, error)
	DeleteFieldRelations(ctx context.Context, ref models.EntityRef, field string) (int64, error)
	DeleteEntityRelations(ctx context.Context, ref models.EntityRef) (int64, error)
	// EntityIDsWithCategories returns the distinct ids of entities of a type
	// whose field carries any of the given categories.
	EntityIDsWithCategories(ctx context.Context, entityType, field string, categoryIDs []uuid.UUID) ([]string, error)

	// Atomic runs fn in a transaction. The Repository passed to fn is bound
	// to it; any error returned by fn rolls everything back.
	Atomic(ctx context.Context, fn func(repo Repository) error) error
}

// FieldLookup resolves the categorization of an entity field.
type FieldLookup interface {
	Lookup(entityType, field string) (models.Categorization, error)
}

// CategoryCache caches the category list of a set. Implementations must
// treat failures as misses.
type CategoryCache interface {
	Categories(ctx context.Context, setID uuid.UUID, locale string) ([]models.Category, bool)
	StoreCategories(ctx context.Context, setID uuid.UUID, locale string, cats []models.Category)
	InvalidateSet(ctx context.Context, setID uuid.UUID)
}
