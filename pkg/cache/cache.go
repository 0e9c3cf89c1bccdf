// Package cache — Redis üzerinde fail-open, JSON tabanlı cache katmanı.
//
// "Fail-open" nedir?
// Cache bir optimizasyondur, doğruluk kaynağı değildir. Redis'e ulaşılamazsa
// veya kayıt bozuksa bu katman HATA DÖNMEZ: Get bir miss gibi davranır,
// Set/Delete sessiz no-op olur (sadece log'lanır). Çağıran kod cache hatası
// yüzünden asla 500 dönmez — en kötü ihtimalle DB'den okur.
//
// Değerler JSON olarak saklanır. Generic Get fonksiyonu sayesinde çağıran
// taraf tip güvenli okuma yapar:
//
//	tree, ok := cache.Get[[]models.CommentNode](ctx, c, key)
//
// Neden method değil de paket fonksiyonu?
// Go'da method'lar tip parametresi alamaz — generic okuma ancak
// serbest fonksiyon ile yazılabilir.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache, Redis bağlantısını saran fail-open cache.
type Cache struct {
	rdb *redis.Client
}

// New, verilen Redis client ile yeni bir Cache oluşturur.
// Client'ın sahipliği çağırana aittir — Close burada yapılmaz.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Get, cache'ten tip güvenli okuma yapar.
//
// Dönen değerler: (value, true) hit durumunda; (zero value, false) miss,
// Redis hatası veya bozuk JSON durumunda. Hata DÖNMEZ — fail-open.
func Get[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T

	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil normal bir miss'tir, log'lamaya değmez.
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] get %s failed (treated as miss): %v", key, err)
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		// Bozuk kayıt — miss say ve sil ki bir daha karşımıza çıkmasın.
		log.Printf("[cache] corrupt entry at %s (treated as miss): %v", key, err)
		c.Delete(ctx, key)
		return zero, false
	}

	return value, true
}

// Set, değeri JSON'a çevirip TTL ile yazar. Hata durumunda sessiz no-op.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[cache] marshal for %s failed (skipped): %v", key, err)
		return
	}

	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("[cache] set %s failed (skipped): %v", key, err)
	}
}

// Delete, key'i siler. Hata durumunda sessiz no-op.
// Yazma path'leri (yorum ekleme/silme) bunu invalidation için çağırır.
func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		log.Printf("[cache] delete %s failed (skipped): %v", key, err)
	}
}
