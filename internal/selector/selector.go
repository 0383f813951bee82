// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package selector decides which widget a frontend should render to pick
// the categories of a field, and builds the option list for it.
package selector

import (
	"github.com/google/uuid"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
)

// Mode is a category picker widget type.
type Mode string

const (
	ModeCheckbox     Mode = "checkbox"
	ModeSelect       Mode = "select"
	ModeAutocomplete Mode = "autocomplete"
)

// MaxInlineOptions is the largest number of categories still rendered
// inline as checkboxes or a select. Bigger sets switch to autocomplete.
// It is a fixed constant, not derived from data.
const MaxInlineOptions = 6

// ParseMode returns the mode named s, or false if s is not a known mode.
func ParseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case ModeCheckbox, ModeSelect, ModeAutocomplete:
		return m, true
	}
	return "", false
}

// Choose picks the widget for a set of available categories given how many
// the field may hold.
func Choose(available int, maxSelectable models.Size) Mode {
	if available > MaxInlineOptions {
		return ModeAutocomplete
	}
	if maxSelectable.Unlimited() || maxSelectable > 1 {
		return ModeCheckbox
	}
	return ModeSelect
}

// Option is one pickable category.
type Option struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Selected bool      `json:"selected"`
}

// Payload is everything a frontend needs to render a picker.
type Payload struct {
	Mode       Mode        `json:"mode"`
	EntityType string      `json:"entity_type"`
	Field      string      `json:"field"`
	SetKey     string      `json:"set_key"`
	SetID      uuid.UUID   `json:"set_id"`
	Editable   bool        `json:"editable"`
	Max        models.Size `json:"max"`
	Options    []Option    `json:"options"`
}

// Build assembles the payload. requested overrides the computed mode when it
// names a known mode; an empty or unknown value is ignored.
func Build(c models.Categorization, set *models.CategorySet, available, current []models.Category, requested string) Payload {
	mode, ok := ParseMode(requested)
	if !ok {
		mode = Choose(len(available), c.Size)
	}

	selected := make(map[string]bool, len(current))
	for _, cat := range current {
		selected[normalize.Key(cat.Name)] = true
	}

	options := make([]Option, 0, len(available))
	for _, cat := range available {
		options = append(options, Option{
			ID:       cat.ID,
			Name:     cat.Name,
			Selected: selected[normalize.Key(cat.Name)],
		})
	}

	return Payload{
		Mode:       mode,
		EntityType: c.EntityType,
		Field:      c.Field,
		SetKey:     set.Key,
		SetID:      set.ID,
		Editable:   set.IsEditable,
		Max:        c.Size,
		Options:    options,
	}
}
