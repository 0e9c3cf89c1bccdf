package repository

import (
	"context"

	"github.com/emirpasa/kalem/models"
)

// PostRepository, blog yazısı veritabanı işlemleri için interface.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID, yazıyı author özeti ve yorum sayısı ile döner.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// List, en yeni yazıdan başlayarak limit+1 mantığıyla sayfa döner.
	List(ctx context.Context, limit, offset int) (*models.PostPage, error)
	Update(ctx context.Context, post *models.Post) error
	// Delete, yazıyı siler; yorumlar FK cascade ile birlikte gider.
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
