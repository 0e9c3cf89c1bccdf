package repository

import (
	"context"

	"github.com/emirpasa/kalem/models"
)

// RefreshTokenRepository, refresh token veritabanı işlemleri için interface.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	// GetByToken, opak token string'i ile kaydı bulur.
	// Kayıt yoksa pkg.ErrNotFound döner — geçerlilik (revoked/expired)
	// kontrolü service katmanındadır.
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	// Revoke, token'ı mantıksal olarak iptal eder (revoked_at set edilir).
	// Idempotent: zaten iptal edilmiş veya hiç var olmayan token için de
	// hata dönmez.
	Revoke(ctx context.Context, token string) error
	// DeleteExpired, süresi geçmiş kayıtları temizler. Janitor goroutine
	// tarafından periyodik çağrılır.
	DeleteExpired(ctx context.Context) (int64, error)
}
