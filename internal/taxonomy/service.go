// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy implements categorization: category sets and their
// categories, the tagging of host entities' fields with them under
// per-field cardinality limits, and lookups over the result.
//
// Every multi-step write runs inside Repository.Atomic, so a rejected
// request (for example a LimitError halfway through a batch) leaves no
// partial state behind.
package taxonomy

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"taxonomy/internal/models"
)

// Service is the entry point for all categorization operations.
type Service struct {
	repo     Repository
	fields   FieldLookup
	cache    CategoryCache
	resolver IdentifierResolver
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables caching of set category lists.
func WithCache(c CategoryCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithResolver replaces the strategy that maps category names to the
// identifiers used by EntitiesTaggedWith.
func WithResolver(r IdentifierResolver) Option {
	return func(s *Service) { s.resolver = r }
}

// New creates a Service. By default names resolve to the id of their
// fittest category.
func New(repo Repository, fields FieldLookup, opts ...Option) *Service {
	s := &Service{repo: repo, fields: fields}
	s.resolver = FittestResolver{svc: s}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Item is one element of a category assignment: either an existing
// category or a bare name resolved (and possibly created) in the field's set.
type Item struct {
	Name     string
	Category *models.Category
}

// ByName returns an Item for a category name.
func ByName(name string) Item {
	return Item{Name: name}
}

// ByCategory returns an Item for an existing category.
func ByCategory(c *models.Category) Item {
	return Item{Category: c}
}

// Names converts a list of names into Items.
func Names(names ...string) []Item {
	items := make([]Item, len(names))
	for i, n := range names {
		items[i] = ByName(n)
	}
	return items
}

func (i Item) label() string {
	if i.Category != nil {
		return i.Category.Name
	}
	return i.Name
}

// AssignOption tunes an assignment call.
type AssignOption func(*assignConfig)

type assignConfig struct {
	locale string
}

// InLocale resolves and creates categories in the given locale.
func InLocale(locale string) AssignOption {
	return func(c *assignConfig) { c.locale = strings.TrimSpace(locale) }
}

func newAssignConfig(opts []AssignOption) assignConfig {
	var cfg assignConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// validateRef rejects references missing a type or id.
func validateRef(ref models.EntityRef) error {
	if strings.TrimSpace(ref.Type) == "" {
		return models.Validation("entity_type", "is required")
	}
	if strings.TrimSpace(ref.ID) == "" {
		return models.Validation("entity_id", "is required")
	}
	return nil
}

// resolveField returns the categorization of a field and the set feeding it.
func (s *Service) resolveField(ctx context.Context, repo Repository, entityType, field string) (models.Categorization, *models.CategorySet, error) {
	c, err := s.fields.Lookup(entityType, field)
	if err != nil {
		return c, nil, err
	}
	set, err := repo.FindSetByKey(ctx, c.From)
	if err != nil {
		return c, nil, err
	}
	if set == nil {
		return c, nil, models.NotFound("category set %q not found", c.From)
	}
	return c, set, nil
}

// lockField resolves a field like resolveField and then takes the field
// lock on repo, which must be bound to a transaction.
func (s *Service) lockField(ctx context.Context, repo Repository, ref models.EntityRef, field string) (models.Categorization, *models.CategorySet, error) {
	c, set, err := s.resolveField(ctx, repo, ref.Type, field)
	if err != nil {
		return c, nil, err
	}
	if err := repo.LockField(ctx, ref, c.Field); err != nil {
		return c, nil, err
	}
	return c, set, nil
}

// invalidate drops cached category lists of the given sets.
func (s *Service) invalidate(ctx context.Context, setIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, id := range setIDs {
		s.cache.InvalidateSet(ctx, id)
	}
}
