// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package normalize canonicalizes category names. Name gives the display
// form that is stored; Key gives the identity used for duplicate detection
// and membership tests.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// whitespaceRuns collapses any run of unicode whitespace into one space.
var whitespaceRuns = regexp.MustCompile(`\s+`)

// Name trims s, composes it to NFC and collapses inner whitespace.
// Example: "  New \t York " → "New York"
func Name(s string) string {
	s = norm.NFC.String(s)
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Key returns the case-folded form of Name(s). Two names with the same key
// refer to the same category within a set.
func Key(s string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(Name(s))
}

// Equal reports whether a and b normalize to the same key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}

// Split breaks text on sep, normalizes each fragment and drops blanks.
// An empty sep yields the whole text as a single name.
func Split(text, sep string) []string {
	var parts []string
	if sep == "" {
		parts = []string{text}
	} else {
		parts = strings.Split(text, sep)
	}

	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := Name(p); n != "" {
			names = append(names, n)
		}
	}
	return names
}
