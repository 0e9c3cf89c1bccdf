package services

import (
	"context"
	"fmt"
	"time"

	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
	"github.com/emirpasa/kalem/pkg/cache"
	"github.com/emirpasa/kalem/repository"
)

// Liste sayfalaması için sınırlar.
const (
	defaultPostPageSize = 20
	maxPostPageSize     = 100
)

// postListCacheKey, ilk sayfa yazı listesinin cache anahtarı.
// Sadece varsayılan sayfa cache'lenir — anasayfa trafiğinin neredeyse
// tamamı bu sorgudur.
const postListCacheKey = "posts:list:first"

// PostService, blog yazısı iş mantığını yönetir.
type PostService struct {
	postRepo repository.PostRepository
	cache    *cache.Cache
	listTTL  time.Duration
	events   EventPublisher
}

// NewPostService, constructor.
func NewPostService(postRepo repository.PostRepository, listCache *cache.Cache, listTTL time.Duration, events EventPublisher) *PostService {
	return &PostService{
		postRepo: postRepo,
		cache:    listCache,
		listTTL:  listTTL,
		events:   events,
	}
}

// Create, yeni blog yazısı oluşturur.
func (s *PostService) Create(ctx context.Context, author *models.User, req *models.CreatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	post := &models.Post{
		AuthorID: author.ID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	authorSummary := author.Summary()
	post.Author = &authorSummary

	s.cache.Delete(ctx, postListCacheKey)
	s.publish("post_create", post)

	return post, nil
}

// GetByID, yazıyı author özeti ve yorum sayısıyla döner.
func (s *PostService) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// List, yazıları en yeniden eskiye sayfalar.
// limit<=0 varsayılana düşer, üst sınır maxPostPageSize ile kısılır.
func (s *PostService) List(ctx context.Context, limit, offset int) (*models.PostPage, error) {
	if limit <= 0 {
		limit = defaultPostPageSize
	}
	if limit > maxPostPageSize {
		limit = maxPostPageSize
	}
	if offset < 0 {
		offset = 0
	}

	// Sadece anasayfa sorgusu (varsayılan limit, offset 0) cache'lenir.
	cacheable := limit == defaultPostPageSize && offset == 0
	if cacheable {
		if page, ok := cache.Get[*models.PostPage](ctx, s.cache, postListCacheKey); ok {
			return page, nil
		}
	}

	page, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cache.Set(ctx, postListCacheKey, page, s.listTTL)
	}

	return page, nil
}

// Update, yazıyı düzenler (PATCH semantiği: sadece gönderilen alanlar değişir).
// Sadece yazar veya admin düzenleyebilir.
func (s *PostService) Update(ctx context.Context, id string, actor *models.User, req *models.UpdatePostRequest) (*models.Post, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canModify(post.AuthorID, actor) {
		return nil, fmt.Errorf("%w: you can only edit your own posts", pkg.ErrForbidden)
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, postListCacheKey)

	return post, nil
}

// Delete, yazıyı siler. Yorumları FK cascade ile birlikte gider.
// Sadece yazar veya admin silebilir.
func (s *PostService) Delete(ctx context.Context, id string, actor *models.User) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !canModify(post.AuthorID, actor) {
		return fmt.Errorf("%w: you can only delete your own posts", pkg.ErrForbidden)
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Hem yazı listesi hem de silinen yazının yorum ağacı cache'i düşer.
	s.cache.Delete(ctx, postListCacheKey)
	s.cache.Delete(ctx, treeCacheKey(id))
	s.publish("post_delete", map[string]string{"id": id})

	return nil
}

func (s *PostService) publish(eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}
