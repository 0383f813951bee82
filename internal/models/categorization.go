// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the maximum number of categories a field accepts.
// SizeMany means there is no limit.
type Size int

const (
	SizeMany Size = -1

	// DefaultSize and DefaultSeparator apply when a field does not set them.
	DefaultSize      Size = 1
	DefaultSeparator      = "##"
)

// ParseSize accepts a positive integer or "many".
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "many" {
		return SizeMany, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid size %q: want a positive integer or \"many\"", s)
	}
	return Size(n), nil
}

// Unlimited reports whether the size has no limit.
func (s Size) Unlimited() bool {
	return s == SizeMany
}

func (s Size) String() string {
	if s.Unlimited() {
		return "many"
	}
	return strconv.Itoa(int(s))
}

// MarshalText encodes the size as an integer or "many".
func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Size) UnmarshalText(b []byte) error {
	v, err := ParseSize(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Categorization describes a categorized field of an entity type:
// which set feeds it, how many categories it holds and how bulk
// string input is split.
type Categorization struct {
	EntityType string `json:"entity_type"`
	Field      string `json:"field"`
	From       string `json:"from"`
	Size       Size   `json:"size"`
	Separator  string `json:"separator"`
}

// IsFull reports whether count categories fill the field.
func (c Categorization) IsFull(count int) bool {
	if c.Size.Unlimited() {
		return false
	}
	return count >= int(c.Size)
}

// WouldOverflow reports whether adding candidates new categories to a field
// already holding current would exceed the size.
func (c Categorization) WouldOverflow(current, candidates int) bool {
	if c.Size.Unlimited() {
		return false
	}
	return current+candidates > int(c.Size)
}

// Single reports whether the field holds at most one category.
func (c Categorization) Single() bool {
	return c.Size == 1
}
