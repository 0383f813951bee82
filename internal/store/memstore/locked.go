// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"context"

	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/taxonomy"
)

var (
	_ taxonomy.Repository = (*Store)(nil)
	_ taxonomy.Repository = tx{}
)

func (s *Store) CreateSet(ctx context.Context, set *models.CategorySet) (*models.CategorySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateSet(ctx, set)
}

func (s *Store) FindSetByID(ctx context.Context, id uuid.UUID) (*models.CategorySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindSetByID(ctx, id)
}

func (s *Store) FindSetByKey(ctx context.Context, key string) (*models.CategorySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindSetByKey(ctx, key)
}

func (s *Store) UpdateSetEditable(ctx context.Context, id uuid.UUID, editable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.UpdateSetEditable(ctx, id, editable)
}

func (s *Store) DeleteSet(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteSet(ctx, id)
}

func (s *Store) FilterSets(ctx context.Context, filters models.Filters) ([]models.CategorySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FilterSets(ctx, filters)
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateCategory(ctx, c)
}

func (s *Store) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindCategoryByID(ctx, id)
}

func (s *Store) FindCategoriesByKey(ctx context.Context, setID uuid.UUID, nameKey string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FindCategoriesByKey(ctx, setID, nameKey)
}

func (s *Store) ListCategories(ctx context.Context, setID uuid.UUID, locale string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.ListCategories(ctx, setID, locale)
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteCategory(ctx, id)
}

func (s *Store) FilterCategories(ctx context.Context, filters models.Filters) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FilterCategories(ctx, filters)
}

func (s *Store) FieldCategories(ctx context.Context, ref models.EntityRef, field string) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.FieldCategories(ctx, ref, field)
}

func (s *Store) LockField(ctx context.Context, ref models.EntityRef, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.LockField(ctx, ref, field)
}

func (s *Store) NextPosition(ctx context.Context, ref models.EntityRef, field string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.NextPosition(ctx, ref, field)
}

func (s *Store) CreateRelation(ctx context.Context, rel *models.CategoryRelation) (*models.CategoryRelation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.CreateRelation(ctx, rel)
}

func (s *Store) DeleteRelation(ctx context.Context, ref models.EntityRef, field string, categoryID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteRelation(ctx, ref, field, categoryID)
}

func (s *Store) DeleteFieldRelations(ctx context.Context, ref models.EntityRef, field string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteFieldRelations(ctx, ref, field)
}

func (s *Store) DeleteEntityRelations(ctx context.Context, ref models.EntityRef) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.DeleteEntityRelations(ctx, ref)
}

func (s *Store) EntityIDsWithCategories(ctx context.Context, entityType, field string, categoryIDs []uuid.UUID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.EntityIDsWithCategories(ctx, entityType, field, categoryIDs)
}
