// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"taxonomy/internal/models"
)

// predicate reports whether a record passes one filter.
type predicate[T any] func(T) bool

// Each filter key builds its predicate independently; results are ANDed.
var (
	setFilters = map[string]func(string) (predicate[models.CategorySet], error){
		"text": func(v string) (predicate[models.CategorySet], error) {
			return func(s models.CategorySet) bool { return containsFold(s.Name, v) }, nil
		},
	}

	categoryFilters = map[string]func(string) (predicate[models.Category], error){
		"text": func(v string) (predicate[models.Category], error) {
			return func(c models.Category) bool { return containsFold(c.Name, v) }, nil
		},
		"category_set_id": categorySetFilter,
		"categorySetId":   categorySetFilter,
		"locale": func(v string) (predicate[models.Category], error) {
			return func(c models.Category) bool { return c.Locale == v }, nil
		},
	}
)

func categorySetFilter(v string) (predicate[models.Category], error) {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, models.Validation("category_set_id", "invalid id %q", v)
	}
	return func(c models.Category) bool { return c.CategorySetID == id }, nil
}

func setPredicates(filters models.Filters) ([]predicate[models.CategorySet], error) {
	return buildPredicates(setFilters, filters)
}

func categoryPredicates(filters models.Filters) ([]predicate[models.Category], error) {
	return buildPredicates(categoryFilters, filters)
}

func buildPredicates[T any](registry map[string]func(string) (predicate[T], error), filters models.Filters) ([]predicate[T], error) {
	var preds []predicate[T]
	for key, value := range filters {
		if value == "" {
			continue
		}
		build, ok := registry[key]
		if !ok {
			slog.Debug("ignoring unknown filter", "filter", key)
			continue
		}
		p, err := build(value)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func matchAll[T any](preds []predicate[T], v T) bool {
	for _, p := range preds {
		if !p(v) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}
