// Package ratelimit — CommentRateLimiter: yorum spam'ine karşı kullanıcı
// bazlı burst koruması.
//
// LoginRateLimiter'dan farkı: key IP değil userID'dir (yorum atmak için
// zaten authenticate olmak gerekir) ve limit aşımında kullanıcı belirli
// bir süre cooldown'a girer — pencere dolmasını beklemek yerine ceza
// süresi işler.
package ratelimit

import (
	"sync"
	"time"
)

// commentBucket, bir kullanıcının yorum sayacı ve varsa cooldown bitişi.
type commentBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time
}

// CommentRateLimiter, kullanıcı bazlı yorum burst limiter'ı.
//
// maxBurst: window içinde izin verilen yorum sayısı (ör: 5).
// window: burst penceresi (ör: 10*time.Second).
// cooldown: limit aşıldığında uygulanan ceza süresi (ör: 30*time.Second).
type CommentRateLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*commentBucket
	maxBurst    int
	window      time.Duration
	cooldown    time.Duration
	stopCleanup chan struct{}
}

// NewCommentRateLimiter, yeni bir comment limiter oluşturur ve arka plan
// temizleme goroutine'ini başlatır.
func NewCommentRateLimiter(maxBurst int, window, cooldown time.Duration) *CommentRateLimiter {
	rl := &CommentRateLimiter{
		buckets:     make(map[string]*commentBucket),
		maxBurst:    maxBurst,
		window:      window,
		cooldown:    cooldown,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow, kullanıcının yeni bir yorum göndermesine izin verilip
// verilmediğini kontrol eder.
func (rl *CommentRateLimiter) Allow(userID string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[userID]
	if !exists {
		rl.buckets[userID] = &commentBucket{count: 1, windowStart: now}
		return true
	}

	// Cooldown'daysa direkt reddet.
	if now.Before(b.cooldownUntil) {
		return false
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxBurst {
		// Limit aşıldı — cooldown başlat.
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}
	return true
}

// RetryAfterSeconds, cooldown'daki kullanıcının kalan bekleme süresi.
func (rl *CommentRateLimiter) RetryAfterSeconds(userID string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[userID]
	if !exists {
		return 0
	}

	remaining := time.Until(b.cooldownUntil)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, temizleme goroutine'ini durdurur.
func (rl *CommentRateLimiter) Close() {
	close(rl.stopCleanup)
}

func (rl *CommentRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *CommentRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window && now.After(b.cooldownUntil) {
			delete(rl.buckets, userID)
		}
	}
}
