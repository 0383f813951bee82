// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fields

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taxonomy/internal/models"
)

const sampleYAML = `
entities:
  article:
    city: {}
    tags:
      size: many
      separator: ","
    genre:
      from: music_genres
      size: 2
  event:
    city:
      size: 1
`

func TestLoad(t *testing.T) {
	reg, err := Load(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	t.Run("defaults applied", func(t *testing.T) {
		c, err := reg.Lookup("article", "city")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if c.Field != "cities" {
			t.Errorf("field: got %q, want %q", c.Field, "cities")
		}
		if c.From != "cities" {
			t.Errorf("from: got %q, want %q", c.From, "cities")
		}
		if c.Size != 1 {
			t.Errorf("size: got %v, want 1", c.Size)
		}
		if c.Separator != "##" {
			t.Errorf("separator: got %q, want %q", c.Separator, "##")
		}
	})

	t.Run("plural lookup", func(t *testing.T) {
		c, err := reg.Lookup("article", "cities")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if c.Field != "cities" {
			t.Errorf("field: got %q", c.Field)
		}
	})

	t.Run("many and separator", func(t *testing.T) {
		c, err := reg.Lookup("article", "tags")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if !c.Size.Unlimited() {
			t.Errorf("size: got %v, want many", c.Size)
		}
		if c.Separator != "," {
			t.Errorf("separator: got %q", c.Separator)
		}
	})

	t.Run("explicit from", func(t *testing.T) {
		c, err := reg.Lookup("article", "genre")
		if err != nil {
			t.Fatalf("Lookup: %v", err)
		}
		if c.From != "music_genres" || c.Size != 2 {
			t.Errorf("got from=%q size=%v", c.From, c.Size)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := reg.Lookup("article", "color")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		_, err = reg.Lookup("person", "city")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound for unknown entity, got %v", err)
		}
	})

	t.Run("listing", func(t *testing.T) {
		types := reg.EntityTypes()
		if len(types) != 2 || types[0] != "article" || types[1] != "event" {
			t.Errorf("EntityTypes: got %v", types)
		}
		fs := reg.Fields("article")
		if len(fs) != 3 || fs[0].Field != "cities" {
			t.Errorf("Fields: got %+v", fs)
		}
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero size", "entities:\n  article:\n    city:\n      size: 0\n"},
		{"bad size", "entities:\n  article:\n    city:\n      size: lots\n"},
		{"unknown key", "entities:\n  article:\n    city:\n      limit: 3\n"},
		{"duplicate after pluralizing", "entities:\n  article:\n    city: {}\n    cities: {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	reg, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load(empty): %v", err)
	}
	if len(reg.EntityTypes()) != 0 {
		t.Error("expected no entity types")
	}
}

func TestLoadFile(t *testing.T) {
	t.Run("missing file yields empty registry", func(t *testing.T) {
		reg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if len(reg.EntityTypes()) != 0 {
			t.Error("expected empty registry")
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fields.yaml")
		if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
			t.Fatal(err)
		}
		reg, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile: %v", err)
		}
		if _, err := reg.Lookup("event", "city"); err != nil {
			t.Errorf("Lookup: %v", err)
		}
	})
}

func TestRegisterValidation(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Register(models.Categorization{Field: "city"}); err == nil {
		t.Error("expected error for missing entity type")
	}
	if _, err := reg.Register(models.Categorization{EntityType: "article"}); err == nil {
		t.Error("expected error for missing field")
	}
	if _, err := reg.Register(models.Categorization{EntityType: "article", Field: "city", Size: -7}); err == nil {
		t.Error("expected error for negative size")
	}
	c, err := reg.Register(models.Categorization{EntityType: "article", Field: "tag", Size: models.SizeMany})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if c.Field != "tags" || c.From != "tags" {
		t.Errorf("got %+v", c)
	}
}
