// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"log/slog"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"taxonomy/internal/models"
)

// filterFunc turns one filter value into an SQL predicate.
type filterFunc func(value string) (sq.Sqlizer, error)

// Each filter key owns its predicate; buildWhere ANDs them. Adding a key
// never touches the others.
var (
	setFilters = map[string]filterFunc{
		"text": textFilter("name"),
	}

	categoryFilters = map[string]filterFunc{
		"text":            textFilter("name"),
		"category_set_id": setIDFilter,
		"categorySetId":   setIDFilter,
		"locale": func(v string) (sq.Sqlizer, error) {
			return sq.Eq{"locale": v}, nil
		},
	}
)

// likeEscaper escapes LIKE wildcards so user text matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// textFilter matches a case-insensitive substring of column.
func textFilter(column string) filterFunc {
	return func(v string) (sq.Sqlizer, error) {
		return sq.Expr("upper("+column+") LIKE upper(?)", "%"+likeEscaper.Replace(v)+"%"), nil
	}
}

func setIDFilter(v string) (sq.Sqlizer, error) {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, models.Validation("category_set_id", "invalid id %q", v)
	}
	return sq.Eq{"category_set_id": id.String()}, nil
}

// buildWhere returns the AND of all known filters, or nil when none applies.
// Keys are visited in sorted order so the generated SQL is stable.
func buildWhere(registry map[string]filterFunc, filters models.Filters) (sq.Sqlizer, error) {
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var and sq.And
	for _, key := range keys {
		value := filters[key]
		if value == "" {
			continue
		}
		build, ok := registry[key]
		if !ok {
			slog.Debug("ignoring unknown filter", "filter", key)
			continue
		}
		pred, err := build(value)
		if err != nil {
			return nil, err
		}
		and = append(and, pred)
	}
	if len(and) == 0 {
		return nil, nil
	}
	return and, nil
}
