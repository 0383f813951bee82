// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
)

// AddCategories appends items to an entity field. Blank names are dropped
// and items already on the field, or repeated in the batch, are skipped.
// Names missing from the set are created when the set is editable.
// Adding past the field size fails with a limit error and nothing is kept.
func (s *Service) AddCategories(ctx context.Context, ref models.EntityRef, field string, items []Item, opts ...AssignOption) ([]models.Category, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	cfg := newAssignConfig(opts)

	var (
		result  []models.Category
		setID   uuid.UUID
		created bool
	)
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		c, set, err := s.lockField(ctx, repo, ref, field)
		if err != nil {
			return err
		}
		setID = set.ID

		created, err = s.add(ctx, repo, ref, c, set, items, cfg)
		if err != nil {
			return err
		}
		result, err = repo.FieldCategories(ctx, ref, c.Field)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.invalidate(ctx, setID)
	}
	return result, nil
}

// add creates the relations for items inside a transaction bound repo.
// It reports whether any category was created along the way.
func (s *Service) add(ctx context.Context, repo Repository, ref models.EntityRef, c models.Categorization, set *models.CategorySet, items []Item, cfg assignConfig) (bool, error) {
	current, err := repo.FieldCategories(ctx, ref, c.Field)
	if err != nil {
		return false, err
	}
	present := make(map[string]bool, len(current))
	for _, cat := range current {
		present[normalize.Key(cat.Name)] = true
	}
	count := len(current)

	position, err := repo.NextPosition(ctx, ref, c.Field)
	if err != nil {
		return false, err
	}

	var anyCreated bool
	for _, item := range items {
		cat, created, err := s.resolveItem(ctx, repo, set, item, cfg.locale)
		if err != nil {
			return false, err
		}
		anyCreated = anyCreated || created
		if cat == nil {
			continue
		}

		key := normalize.Key(cat.Name)
		if present[key] {
			continue
		}
		if c.IsFull(count) {
			return false, models.Limit(c.Field, c.Size)
		}

		if _, err := repo.CreateRelation(ctx, &models.CategoryRelation{
			Entity:     ref,
			CategoryID: cat.ID,
			FieldName:  c.Field,
			Position:   position,
		}); err != nil {
			return false, err
		}
		present[key] = true
		position++
		count++
	}
	return anyCreated, nil
}

// resolveItem maps an item to a stored category of set, creating it from
// its name when allowed. A nil category means the item is blank.
func (s *Service) resolveItem(ctx context.Context, repo Repository, set *models.CategorySet, item Item, locale string) (*models.Category, bool, error) {
	if item.Category != nil {
		stored, err := repo.FindCategoryByID(ctx, item.Category.ID)
		if err != nil {
			return nil, false, err
		}
		if stored == nil {
			return nil, false, models.NotFound("category %s not found", item.Category.ID)
		}
		if stored.CategorySetID != set.ID {
			return nil, false, models.Validation("category", "%q does not belong to set %q", stored.Name, set.Key)
		}
		fit, err := selectFittest(ctx, repo, set, ByCategory(stored), locale)
		if err != nil {
			return nil, false, err
		}
		if fit == nil {
			// An explicitly chosen category is kept even without a variant
			// in the requested locale.
			fit = stored
		}
		return fit, false, nil
	}

	name := normalize.Name(item.Name)
	if name == "" {
		return nil, false, nil
	}
	fit, err := selectFittest(ctx, repo, set, ByName(name), locale)
	if err != nil {
		return nil, false, err
	}
	if fit != nil {
		return fit, false, nil
	}

	if !set.IsEditable {
		return nil, false, models.CreationNotAllowed(set.Key, name)
	}
	newCat, err := s.newCategory(ctx, repo, set, name, locale)
	if err != nil {
		return nil, false, err
	}
	created, err := repo.CreateCategory(ctx, newCat)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("category created from name", "set", set.Key, "name", created.Name, "locale", created.Locale)
	return created, true, nil
}

// SetFromSeparatedString splits text on separator (the field's separator
// when empty) and adds the resulting names. The limit is checked against
// all of them before any relation is written.
func (s *Service) SetFromSeparatedString(ctx context.Context, ref models.EntityRef, field, text, separator string, opts ...AssignOption) ([]models.Category, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	cfg := newAssignConfig(opts)

	var (
		result  []models.Category
		setID   uuid.UUID
		created bool
	)
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		c, set, err := s.lockField(ctx, repo, ref, field)
		if err != nil {
			return err
		}
		setID = set.ID
		if separator == "" {
			separator = c.Separator
		}
		names := normalize.Split(text, separator)

		current, err := repo.FieldCategories(ctx, ref, c.Field)
		if err != nil {
			return err
		}
		if c.WouldOverflow(len(current), countNew(current, names)) {
			return models.Limit(c.Field, c.Size)
		}

		created, err = s.add(ctx, repo, ref, c, set, Names(names...), cfg)
		if err != nil {
			return err
		}
		result, err = repo.FieldCategories(ctx, ref, c.Field)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.invalidate(ctx, setID)
	}
	return result, nil
}

// ReplaceCategories makes items the exact content of an entity field.
// Relations that stay keep their position; new ones are appended. More
// distinct items than the field size fail with a limit error.
func (s *Service) ReplaceCategories(ctx context.Context, ref models.EntityRef, field string, items []Item, opts ...AssignOption) ([]models.Category, error) {
	if err := validateRef(ref); err != nil {
		return nil, err
	}
	cfg := newAssignConfig(opts)

	var (
		result  []models.Category
		setID   uuid.UUID
		created bool
	)
	err := s.repo.Atomic(ctx, func(repo Repository) error {
		c, set, err := s.lockField(ctx, repo, ref, field)
		if err != nil {
			return err
		}
		setID = set.ID

		wanted := make(map[string]bool)
		var resolved []models.Category
		for _, item := range items {
			cat, wasCreated, err := s.resolveItem(ctx, repo, set, item, cfg.locale)
			if err != nil {
				return err
			}
			created = created || wasCreated
			if cat == nil {
				continue
			}
			key := normalize.Key(cat.Name)
			if wanted[key] {
				continue
			}
			wanted[key] = true
			resolved = append(resolved, *cat)
		}
		if c.WouldOverflow(0, len(resolved)) {
			return models.Limit(c.Field, c.Size)
		}

		current, err := repo.FieldCategories(ctx, ref, c.Field)
		if err != nil {
			return err
		}
		for _, cat := range current {
			if wanted[normalize.Key(cat.Name)] {
				continue
			}
			if _, err := repo.DeleteRelation(ctx, ref, c.Field, cat.ID); err != nil {
				return err
			}
		}

		keep := make([]Item, len(resolved))
		for i := range resolved {
			keep[i] = ByCategory(&resolved[i])
		}
		if _, err := s.add(ctx, repo, ref, c, set, keep, cfg); err != nil {
			return err
		}
		result, err = repo.FieldCategories(ctx, ref, c.Field)
		return err
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.invalidate(ctx, setID)
	}
	return result, nil
}

// countNew counts the distinct names not already among current.
func countNew(current []models.Category, names []string) int {
	seen := make(map[string]bool, len(current)+len(names))
	for _, cat := range current {
		seen[normalize.Key(cat.Name)] = true
	}
	n := 0
	for _, name := range names {
		key := normalize.Key(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		n++
	}
	return n
}

// IsFull reports whether an entity field holds as many categories as its
// size allows. Unlimited fields are never full.
func (s *Service) IsFull(ctx context.Context, ref models.EntityRef, field string) (bool, error) {
	c, current, err := s.fieldState(ctx, ref, field)
	if err != nil {
		return false, err
	}
	return c.IsFull(len(current)), nil
}

// WouldOverflow reports whether adding names to an entity field would
// exceed its size. Names already on the field do not count.
func (s *Service) WouldOverflow(ctx context.Context, ref models.EntityRef, field string, names []string) (bool, error) {
	c, current, err := s.fieldState(ctx, ref, field)
	if err != nil {
		return false, err
	}
	return c.WouldOverflow(len(current), countNew(current, names)), nil
}

// HasCategory reports whether an entity field carries a category with the
// same normalized name as item. A category reference also matches by id,
// and one carrying only an id is loaded to learn its name.
func (s *Service) HasCategory(ctx context.Context, ref models.EntityRef, field string, item Item) (bool, error) {
	_, current, err := s.fieldState(ctx, ref, field)
	if err != nil {
		return false, err
	}
	if item.Category != nil {
		for _, cat := range current {
			if cat.ID == item.Category.ID {
				return true, nil
			}
		}
		if item.Category.Name == "" {
			stored, err := s.repo.FindCategoryByID(ctx, item.Category.ID)
			if err != nil {
				return false, err
			}
			if stored == nil {
				return false, nil
			}
			item = ByCategory(stored)
		}
	}
	key := normalize.Key(item.label())
	if key == "" {
		return false, nil
	}
	for _, cat := range current {
		if normalize.Key(cat.Name) == key {
			return true, nil
		}
	}
	return false, nil
}

// GetMany returns the categories of an entity field in position order.
func (s *Service) GetMany(ctx context.Context, ref models.EntityRef, field string) ([]models.Category, error) {
	_, current, err := s.fieldState(ctx, ref, field)
	return current, err
}

// GetOne returns the category of a single-valued field, or nil if it is
// empty. It refuses fields whose size is not 1.
func (s *Service) GetOne(ctx context.Context, ref models.EntityRef, field string) (*models.Category, error) {
	c, current, err := s.fieldState(ctx, ref, field)
	if err != nil {
		return nil, err
	}
	if !c.Single() {
		return nil, models.Validation(c.Field, "holds up to %s categories, use GetMany", c.Size)
	}
	if len(current) == 0 {
		return nil, nil
	}
	return &current[0], nil
}

// Categorization returns the descriptor of an entity field.
func (s *Service) Categorization(entityType, field string) (models.Categorization, error) {
	return s.fields.Lookup(entityType, field)
}

// fieldState returns the descriptor and current categories of a field.
func (s *Service) fieldState(ctx context.Context, ref models.EntityRef, field string) (models.Categorization, []models.Category, error) {
	if err := validateRef(ref); err != nil {
		return models.Categorization{}, nil, err
	}
	c, err := s.fields.Lookup(ref.Type, field)
	if err != nil {
		return c, nil, err
	}
	current, err := s.repo.FieldCategories(ctx, ref, c.Field)
	if err != nil {
		return c, nil, err
	}
	return c, current, nil
}

// RemoveAll clears an entity field and returns how many relations went away.
func (s *Service) RemoveAll(ctx context.Context, ref models.EntityRef, field string) (int64, error) {
	if err := validateRef(ref); err != nil {
		return 0, err
	}
	c, err := s.fields.Lookup(ref.Type, field)
	if err != nil {
		return 0, err
	}
	return s.repo.DeleteFieldRelations(ctx, ref, c.Field)
}

// RemoveCategory detaches one category from an entity field.
func (s *Service) RemoveCategory(ctx context.Context, ref models.EntityRef, field string, categoryID uuid.UUID) error {
	if err := validateRef(ref); err != nil {
		return err
	}
	c, err := s.fields.Lookup(ref.Type, field)
	if err != nil {
		return err
	}
	removed, err := s.repo.DeleteRelation(ctx, ref, c.Field, categoryID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NotFound("category %s is not assigned to %s", categoryID, c.Field)
	}
	return nil
}

// DeleteEntity removes every relation of an entity across all of its
// fields. Hosts call it when the entity is destroyed.
func (s *Service) DeleteEntity(ctx context.Context, ref models.EntityRef) (int64, error) {
	if err := validateRef(ref); err != nil {
		return 0, err
	}
	n, err := s.repo.DeleteEntityRelations(ctx, ref)
	if err != nil {
		return 0, err
	}
	slog.Info("entity relations removed", "type", ref.Type, "id", ref.ID, "count", n)
	return n, nil
}
