// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
)

// CreateSet creates a category set. Callers without a preference pass
// editable=true, which is the default for new sets.
func (s *Service) CreateSet(ctx context.Context, name, key string, editable bool) (*models.CategorySet, error) {
	name = normalize.Name(name)
	key = strings.TrimSpace(key)
	if name == "" {
		return nil, models.Validation("name", "is required")
	}
	if key == "" {
		return nil, models.Validation("key", "is required")
	}

	existing, err := s.repo.FindSetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.Duplicate("key", "category set %q already exists", key)
	}

	set, err := s.repo.CreateSet(ctx, &models.CategorySet{Name: name, Key: key, IsEditable: editable})
	if err != nil {
		return nil, err
	}
	slog.Info("category set created", "key", set.Key, "editable", set.IsEditable)
	return set, nil
}

// FindSetByKey returns the set with the given key.
func (s *Service) FindSetByKey(ctx context.Context, key string) (*models.CategorySet, error) {
	set, err := s.repo.FindSetByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, models.NotFound("category set %q not found", key)
	}
	return set, nil
}

// FindSet returns the set with the given id.
func (s *Service) FindSet(ctx context.Context, id uuid.UUID) (*models.CategorySet, error) {
	set, err := s.repo.FindSetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, models.NotFound("category set %s not found", id)
	}
	return set, nil
}

// SetEditable toggles whether categories may be created implicitly in a set.
func (s *Service) SetEditable(ctx context.Context, key string, editable bool) (*models.CategorySet, error) {
	set, err := s.FindSetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSetEditable(ctx, set.ID, editable); err != nil {
		return nil, err
	}
	set.IsEditable = editable
	return set, nil
}

// DeleteSet removes a set with its categories and their relations.
func (s *Service) DeleteSet(ctx context.Context, key string) error {
	set, err := s.FindSetByKey(ctx, key)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteSet(ctx, set.ID); err != nil {
		return err
	}
	s.invalidate(ctx, set.ID)
	slog.Info("category set deleted", "key", set.Key)
	return nil
}

// CreateCategory explicitly creates a category in a set. Explicit creation
// is allowed on non-editable sets; only implicit creation from a bare name
// during assignment is blocked there.
func (s *Service) CreateCategory(ctx context.Context, set *models.CategorySet, name, description, locale string) (*models.Category, error) {
	if set == nil {
		return nil, models.Validation("category_set", "is required")
	}
	c, err := s.newCategory(ctx, s.repo, set, name, locale)
	if err != nil {
		return nil, err
	}
	c.Description = strings.TrimSpace(description)

	created, err := s.repo.CreateCategory(ctx, c)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, set.ID)
	return created, nil
}

// newCategory validates a category about to be created in set.
func (s *Service) newCategory(ctx context.Context, repo Repository, set *models.CategorySet, name, locale string) (*models.Category, error) {
	name = normalize.Name(name)
	locale = strings.TrimSpace(locale)
	if name == "" {
		return nil, models.Validation("name", "is required")
	}

	key := normalize.Key(name)
	variants, err := repo.FindCategoriesByKey(ctx, set.ID, key)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		if v.Locale == locale {
			return nil, models.Duplicate("name", "category %q already exists in set %q", name, set.Key)
		}
	}

	return &models.Category{
		CategorySetID: set.ID,
		Name:          name,
		NameKey:       key,
		Locale:        locale,
	}, nil
}

// DeleteCategory removes a category and every relation pointing at it.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return models.NotFound("category %s not found", id)
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, c.CategorySetID)
	return nil
}

// FindCategory returns the category with the given id.
func (s *Service) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, models.NotFound("category %s not found", id)
	}
	return c, nil
}

// ListCategories returns the categories of a set ordered by name. With a
// locale, only that locale and locale-neutral categories are returned.
func (s *Service) ListCategories(ctx context.Context, set *models.CategorySet, locale string) ([]models.Category, error) {
	locale = strings.TrimSpace(locale)
	if s.cache != nil {
		if cats, ok := s.cache.Categories(ctx, set.ID, locale); ok {
			return cats, nil
		}
	}

	cats, err := s.repo.ListCategories(ctx, set.ID, locale)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.StoreCategories(ctx, set.ID, locale, cats)
	}
	return cats, nil
}

// SelectFittest looks up the category of set that best matches item for
// locale. It never creates anything and returns nil when nothing fits.
//
// A name resolves to its exact locale variant, then to the locale-neutral
// one. Without a locale the neutral variant wins, then the oldest. A
// category instance is returned as is unless it belongs to another locale,
// in which case its variant in the requested locale is looked up. There is
// no fallback to an arbitrary locale.
func (s *Service) SelectFittest(ctx context.Context, set *models.CategorySet, item Item, locale string) (*models.Category, error) {
	return selectFittest(ctx, s.repo, set, item, strings.TrimSpace(locale))
}

func selectFittest(ctx context.Context, repo Repository, set *models.CategorySet, item Item, locale string) (*models.Category, error) {
	if c := item.Category; c != nil {
		if locale == "" || c.Locale == "" || c.Locale == locale {
			return c, nil
		}
		variants, err := repo.FindCategoriesByKey(ctx, set.ID, normalize.Key(c.Name))
		if err != nil {
			return nil, err
		}
		return pickLocale(variants, locale, false), nil
	}

	key := normalize.Key(item.Name)
	if key == "" {
		return nil, nil
	}
	variants, err := repo.FindCategoriesByKey(ctx, set.ID, key)
	if err != nil {
		return nil, err
	}
	if locale == "" {
		if c := pickLocale(variants, "", false); c != nil {
			return c, nil
		}
		if len(variants) > 0 {
			return &variants[0], nil
		}
		return nil, nil
	}
	return pickLocale(variants, locale, true), nil
}

// pickLocale returns the variant in locale, or the neutral one if
// neutralFallback is set.
func pickLocale(variants []models.Category, locale string, neutralFallback bool) *models.Category {
	var neutral *models.Category
	for i := range variants {
		if variants[i].Locale == locale {
			return &variants[i]
		}
		if variants[i].Locale == "" && neutral == nil {
			neutral = &variants[i]
		}
	}
	if neutralFallback {
		return neutral
	}
	return nil
}

// FilterSets searches category sets. Supported filter: "text".
func (s *Service) FilterSets(ctx context.Context, filters models.Filters) ([]models.CategorySet, error) {
	return s.repo.FilterSets(ctx, filters)
}

// FilterCategories searches categories. Supported filters: "text",
// "category_set_id" and "locale"; they combine with AND.
func (s *Service) FilterCategories(ctx context.Context, filters models.Filters) ([]models.Category, error) {
	return s.repo.FilterCategories(ctx, filters)
}
