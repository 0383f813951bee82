// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// categories.go provides a Valkey-backed cache of category set listings.
// Listing a set for a selector is the hottest read path, so the sorted
// result is stored per (set, locale) and dropped whenever the set changes.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"taxonomy/internal/models"
	"taxonomy/internal/normalize"
	"taxonomy/internal/taxonomy"
)

const (
	// categoryKeyPrefix is the Valkey key prefix for cached category lists.
	categoryKeyPrefix = "categories:"

	// DefaultCategoryTTL is how long a category list stays cached.
	DefaultCategoryTTL = 5 * time.Minute
)

// CategoryCache caches the category list of a set in Valkey. Failures are
// logged and behave as misses.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ taxonomy.CategoryCache = (*CategoryCache)(nil)

// NewCategoryCache creates a category cache backed by the given Valkey client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl == 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// ListKey returns the cache key of a set's list in locale.
func ListKey(setID uuid.UUID, locale string) string {
	return categoryKeyPrefix + setID.String() + ":" + locale
}

// Categories returns the cached list of a set. The bool is false on a miss.
func (cc *CategoryCache) Categories(ctx context.Context, setID uuid.UUID, locale string) ([]models.Category, bool) {
	key := ListKey(setID, locale)
	val, err := cc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("category cache get error", "key", key, "error", err)
		return nil, false
	}

	var cats []models.Category
	if err := json.Unmarshal(val, &cats); err != nil {
		slog.Warn("category cache decode error", "key", key, "error", err)
		return nil, false
	}
	// name_key is not serialized; it is derived from the name.
	for i := range cats {
		cats[i].NameKey = normalize.Key(cats[i].Name)
	}
	slog.Debug("category cache hit", "key", key)
	return cats, true
}

// StoreCategories caches the list of a set with the configured TTL.
func (cc *CategoryCache) StoreCategories(ctx context.Context, setID uuid.UUID, locale string, cats []models.Category) {
	if cats == nil {
		cats = []models.Category{}
	}
	data, err := json.Marshal(cats)
	if err != nil {
		slog.Warn("category cache encode error", "set_id", setID, "error", err)
		return
	}
	key := ListKey(setID, locale)
	if err := cc.client.Set(ctx, key, data, cc.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "key", key, "error", err)
	}
}

// InvalidateSet removes every cached list of a set, across locales, by
// scanning for the set prefix.
func (cc *CategoryCache) InvalidateSet(ctx context.Context, setID uuid.UUID) {
	pattern := categoryKeyPrefix + setID.String() + ":*"
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			slog.Warn("category cache scan error", "set_id", setID, "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("category cache bulk delete error", "set_id", setID, "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("category cache invalidated", "set_id", setID, "deleted", deleted)
	}
}
