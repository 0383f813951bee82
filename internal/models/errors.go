// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
)

// Error kinds. Callers branch on these with errors.Is to produce field-level
// feedback, so they are never collapsed into a generic failure.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicate          = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrCreationNotAllowed = errors.New("category creation not allowed")
	ErrLimit              = errors.New("category limit exceeded")
)

// Error is a rejected request. Kind is one of the sentinel errors above.
type Error struct {
	Kind  error
	Field string
	Msg   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// Unwrap exposes the kind to errors.Is.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Validation returns an ErrValidation error for field.
func Validation(field, format string, args ...any) error {
	return &Error{Kind: ErrValidation, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Duplicate returns an ErrDuplicate error for field.
func Duplicate(field, format string, args ...any) error {
	return &Error{Kind: ErrDuplicate, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns an ErrNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// CreationNotAllowed returns an ErrCreationNotAllowed error for a set key.
func CreationNotAllowed(setKey, name string) error {
	return &Error{
		Kind: ErrCreationNotAllowed,
		Msg:  fmt.Sprintf("category set %q is not editable, cannot create %q", setKey, name),
	}
}

// Limit returns an ErrLimit error for field.
func Limit(field string, size Size) error {
	return &Error{Kind: ErrLimit, Field: field, Msg: fmt.Sprintf("at most %s categories allowed", size)}
}

// KindName returns a short machine-readable name for the kind of err,
// or "internal" if err is not a rejected request.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCreationNotAllowed):
		return "creation_not_allowed"
	case errors.Is(err, ErrLimit):
		return "limit"
	default:
		return "internal"
	}
}
