// Package cache provides Redis caching for the meal detectors.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"meal_backend/internal/feature/mealdetection/domain/entity"
	"meal_backend/internal/feature/mealdetection/usecase"
)

const (
	// DefaultTTL is used when a non-positive TTL is given.
	DefaultTTL = 24 * time.Hour
	// DefaultNamespace prefixes every cache key.
	DefaultNamespace = "meal:secondary"
)

// CachingSecondaryDetector decorates a SecondaryDetector with Redis caching
// keyed by the image content. Identical uploads skip the paid model call.
type CachingSecondaryDetector struct {
	inner     usecase.SecondaryDetector
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.SecondaryDetector = (*CachingSecondaryDetector)(nil)

// NewCachingSecondaryDetector decorates inner with Redis caching.
// If ttl is 0, it defaults to 24 hours. If namespace is empty, it uses "meal:secondary".
func NewCachingSecondaryDetector(rdb *redis.Client, ttl time.Duration, inner usecase.SecondaryDetector, namespace string) *CachingSecondaryDetector {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &CachingSecondaryDetector{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// cachedItem and cachedDetection are the JSON form stored in Redis.
type cachedItem struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type cachedDetection struct {
	Items      []cachedItem `json:"items"`
	Confidence float32      `json:"confidence"`
	Model      string       `json:"model"`
}

// DetectSecondary returns the cached detection for the image if present,
// otherwise calls the wrapped detector and stores non-empty results.
func (c *CachingSecondaryDetector) DetectSecondary(ctx context.Context, imageData []byte) (*entity.SecondaryDetection, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.DetectSecondary(ctx, imageData)
	}

	key := c.cacheKey(imageData)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var dto cachedDetection
		if err := json.Unmarshal(b, &dto); err == nil {
			return fromDTO(dto), nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the model
	out, err := c.inner.DetectSecondary(ctx, imageData)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Items) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(toDTO(out)); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Purge deletes every entry under the namespace and returns how many keys were removed.
func (c *CachingSecondaryDetector) Purge(ctx context.Context) (int, error) {
	if c.rdb == nil {
		return 0, nil
	}
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, c.namespace+":*", 200).Result()
		if err != nil {
			return removed, fmt.Errorf("scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete cache keys: %w", err)
			}
			removed += int(n)
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return removed, nil
}

// cacheKey generates a cache key from the BLAKE2b-256 digest of the image.
func (c *CachingSecondaryDetector) cacheKey(imageData []byte) string {
	sum := blake2b.Sum256(imageData)
	return c.namespace + ":" + hex.EncodeToString(sum[:])
}

func toDTO(d *entity.SecondaryDetection) cachedDetection {
	items := make([]cachedItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, cachedItem{Name: it.Name, Category: string(it.Category)})
	}
	return cachedDetection{Items: items, Confidence: d.Confidence, Model: d.Model}
}

func fromDTO(dto cachedDetection) *entity.SecondaryDetection {
	items := make([]entity.SecondaryItem, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, entity.SecondaryItem{Name: it.Name, Category: entity.Category(it.Category)})
	}
	return &entity.SecondaryDetection{Items: items, Confidence: dto.Confidence, Model: dto.Model}
}
