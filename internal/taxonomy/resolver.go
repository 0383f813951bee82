// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"

	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
)

// IdentifierResolver maps a category name within a set to the identifier
// used in "entities tagged with" queries. ok is false when the name does
// not resolve.
type IdentifierResolver interface {
	IdentifierFor(ctx context.Context, set *models.CategorySet, name string) (id uuid.UUID, ok bool, err error)
}

// ResolverFunc adapts a function to IdentifierResolver.
type ResolverFunc func(ctx context.Context, set *models.CategorySet, name string) (uuid.UUID, bool, error)

// IdentifierFor calls f.
func (f ResolverFunc) IdentifierFor(ctx context.Context, set *models.CategorySet, name string) (uuid.UUID, bool, error) {
	return f(ctx, set, name)
}

// FittestResolver resolves a name to the id of its fittest category.
type FittestResolver struct {
	svc *Service
}

// IdentifierFor implements IdentifierResolver.
func (r FittestResolver) IdentifierFor(ctx context.Context, set *models.CategorySet, name string) (uuid.UUID, bool, error) {
	c, err := r.svc.SelectFittest(ctx, set, ByName(name), "")
	if err != nil || c == nil {
		return uuid.Nil, false, err
	}
	return c.ID, true, nil
}

// EntitiesTaggedWith returns the ids of entities of entityType whose field
// carries any of the named categories. Names that do not resolve are
// ignored; if none resolves the result is empty.
func (s *Service) EntitiesTaggedWith(ctx context.Context, entityType, field string, names []string) ([]string, error) {
	c, set, err := s.resolveField(ctx, s.repo, entityType, field)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, name := range names {
		if normalize.Name(name) == "" {
			continue
		}
		id, ok, err := s.resolver.IdentifierFor(ctx, set, name)
		if err != nil {
			return nil, err
		}
		if ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []string{}, nil
	}
	return s.repo.EntityIDsWithCategories(ctx, entityType, c.Field, ids)
}
