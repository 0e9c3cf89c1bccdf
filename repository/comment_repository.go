package repository

import (
	"context"

	"github.com/emirpasa/kalem/models"
)

// CommentRepository, yorum veritabanı işlemleri için interface.
type CommentRepository interface {
	// Create, yorumu depth değeriyle birlikte kaydeder.
	// Depth hesabı service katmanında yapılır — repository sadece yazar.
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// GetByPostID, yazıya ait TÜM yorumları düz liste olarak döner
	// (author özeti dahil). Ağaç kurma işi service katmanındadır.
	GetByPostID(ctx context.Context, postID string) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
