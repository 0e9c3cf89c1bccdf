package repository

import (
	"context"

	"github.com/emirpasa/kalem/models"
)

// ResetTokenRepository, şifre sıfırlama token'ları için interface.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	// GetByTokenHash, SHA256 hash'i ile kaydı bulur.
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)
	// GetLatestByUserID, kullanıcının en son oluşturulan token kaydını döner.
	// İstek cooldown kontrolü için kullanılır.
	GetLatestByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error)
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID, kullanıcının tüm reset token'larını siler.
	// Şifre başarıyla sıfırlandığında eski linkler geçersiz kalmalı.
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
