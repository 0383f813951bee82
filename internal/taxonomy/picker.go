// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"

	"taxonomy/internal/models"
	"taxonomy/internal/selector"
)

// Selector returns the picker payload for an entity field: the widget mode,
// the set's categories (restricted to locale when given) and which of them
// the entity already carries. requested forces a mode when valid.
func (s *Service) Selector(ctx context.Context, ref models.EntityRef, field, requested, locale string) (selector.Payload, error) {
	if err := validateRef(ref); err != nil {
		return selector.Payload{}, err
	}
	c, set, err := s.resolveField(ctx, s.repo, ref.Type, field)
	if err != nil {
		return selector.Payload{}, err
	}

	available, err := s.ListCategories(ctx, set, locale)
	if err != nil {
		return selector.Payload{}, err
	}
	current, err := s.repo.FieldCategories(ctx, ref, c.Field)
	if err != nil {
		return selector.Payload{}, err
	}
	return selector.Build(c, set, available, current, requested), nil
}
