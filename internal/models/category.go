// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CategorySet is a named, keyed vocabulary of categories.
// Non-editable sets reject categories created implicitly from a bare name.
type CategorySet struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Key        string    `json:"key"`
	IsEditable bool      `json:"is_editable"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Category is a single term belonging to exactly one CategorySet.
// Locale is empty for locale-neutral categories.
type Category struct {
	ID            uuid.UUID `json:"id"`
	CategorySetID uuid.UUID `json:"category_set_id"`
	Name          string    `json:"name"`
	NameKey       string    `json:"-"`
	Description   string    `json:"description"`
	Locale        string    `json:"locale,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// String returns the category name.
func (c Category) String() string {
	return c.Name
}

// CategoryRelation links a field of a host entity to a category.
// Relations are only ever created or deleted, never updated.
type CategoryRelation struct {
	ID         uuid.UUID `json:"id"`
	Entity     EntityRef `json:"entity"`
	CategoryID uuid.UUID `json:"category_id"`
	FieldName  string    `json:"field_name"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntityRef identifies a taggable record in a host application.
type EntityRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Filters holds search filters keyed by filter name (e.g. "text").
type Filters map[string]string
