package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
	"github.com/emirpasa/kalem/pkg/cache"
	"github.com/emirpasa/kalem/repository"
)

// EventPublisher, gerçek zamanlı olayları WebSocket client'larına yayar.
// Interface burada tanımlıdır (ws paketinde değil) — service katmanı
// transport detayına değil, soyutlamaya bağımlı olur.
type EventPublisher interface {
	Publish(eventType string, payload any)
}

// CommentService, yorum iş mantığını yönetir: derinlik kuralı,
// ağaç inşası, cache ve olay yayını.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cache       *cache.Cache
	treeTTL     time.Duration
	// events nil olabilir — WebSocket kapatılmış kurulumlarda yayın atlanır.
	events EventPublisher
}

// NewCommentService, constructor.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	treeCache *cache.Cache,
	treeTTL time.Duration,
	events EventPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cache:       treeCache,
		treeTTL:     treeTTL,
		events:      events,
	}
}

// treeCacheKey, yazı başına yorum ağacı cache anahtarı.
func treeCacheKey(postID string) string {
	return "comments:tree:" + postID
}

// Create, yazıya yeni yorum ekler.
//
// Derinlik kuralı: kök yorum depth 0 alır; reply, parent.Depth + 1 alır.
// parent.Depth >= MaxCommentDepth ise yorum REDDEDİLİR — child asla
// limit üstü bir depth ile yazılmaz.
//
// Derinlik kontrolü ile insert AYRI sorgulardır, transaction yoktur.
// Yarış durumunda (parent'ı eşzamanlı silinen reply) yetim kayıt oluşabilir;
// ağaç kurucusu yetimleri zaten görmezden geldiği için bu kabul edilebilir.
func (s *CommentService) Create(ctx context.Context, postID string, author *models.User, req *models.CreateCommentRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Yazı gerçekten var mı? Yoksa 404.
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	depth := 0
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent comment not found", pkg.ErrNotFound)
			}
			return nil, err
		}

		// Parent başka bir yazının yorumuysa bu yazı KAPSAMINDA yoktur —
		// bilinmeyen parent ile aynı muamele: 404.
		if parent.PostID != postID {
			return nil, fmt.Errorf("%w: parent comment not found", pkg.ErrNotFound)
		}

		if parent.Depth >= models.MaxCommentDepth {
			return nil, pkg.ErrDepthExceeded
		}

		depth = parent.Depth + 1
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: author.ID,
		ParentID: req.ParentID,
		Depth:    depth,
		Content:  req.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	authorSummary := author.Summary()
	comment.Author = &authorSummary

	// Yazma path'i cache'i HER ZAMAN invalide eder — TTL'i beklemeyiz,
	// yeni yorum bir sonraki okumada görünür.
	s.cache.Delete(ctx, treeCacheKey(postID))
	s.publish("comment_create", comment)

	return comment, nil
}

// GetTree, yazının yorum ağacını döner.
//
// Cache-first: Redis'te dolu bir ağaç varsa DB'ye HİÇ gidilmez — yazı
// varlık kontrolü dahil. TTL penceresi içinde cache otoritedir; bu sırada
// silinmiş bir yazının ağacı da TTL dolana kadar servis edilir.
// Boş ağaç hit SAYILMAZ: miss path'ine düşer ve yazı varlığı doğrulanır,
// yoksa silinmiş yazılar sonsuza dek boş ağaç dönerdi.
func (s *CommentService) GetTree(ctx context.Context, postID string) ([]models.CommentNode, error) {
	key := treeCacheKey(postID)
	if tree, ok := cache.Get[[]models.CommentNode](ctx, s.cache, key); ok && len(tree) > 0 {
		return tree, nil
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}

	tree := buildTree(comments)
	s.cache.Set(ctx, key, tree, s.treeTTL)

	return tree, nil
}

// Update, yorum içeriğini düzenler. Sadece yazar (veya admin) düzenleyebilir.
func (s *CommentService) Update(ctx context.Context, commentID string, actor *models.User, req *models.UpdateCommentRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(comment.AuthorID, actor) {
		return nil, fmt.Errorf("%w: you can only edit your own comments", pkg.ErrForbidden)
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, treeCacheKey(comment.PostID))

	return comment, nil
}

// Delete, yorumu siler. Sadece yazar (veya admin) silebilir.
// Çocuk yorumlar silinmez — yetim kalır ve ağaçtan düşer.
func (s *CommentService) Delete(ctx context.Context, commentID string, actor *models.User) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if !canModify(comment.AuthorID, actor) {
		return fmt.Errorf("%w: you can only delete your own comments", pkg.ErrForbidden)
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.cache.Delete(ctx, treeCacheKey(comment.PostID))
	s.publish("comment_delete", map[string]string{
		"id":      comment.ID,
		"post_id": comment.PostID,
	})

	return nil
}

// canModify, actor'ün kaynağı düzenleme/silme yetkisini kontrol eder.
func canModify(ownerID string, actor *models.User) bool {
	return actor.ID == ownerID || actor.Role == models.RoleAdmin
}

func (s *CommentService) publish(eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}

// buildTree, düz yorum listesinden iç içe ağaç inşa eder.
//
// Kurallar:
//   - Kök seviyede SADECE parent_id'si nil olan yorumlar bulunur.
//   - Parent'ı listede olmayan yorumlar (yetimler) ağaçta GÖRÜNMEZ.
//   - Kardeşler created_at'e göre YENİDEN ESKİYE sıralanır; eşitlikte id
//     tie-break yapar — aynı girdi her zaman aynı çıktıyı üretir.
//   - parent_id FK olmadığı için veri döngü içerebilir. Gezinti, yol
//     üzerindeki ata kümesini taşır: daha önce ziyaret edilmiş bir id'ye
//     inen dal orada kesilir. Hata dönülmez — döngülü dalın çocukları
//     boş replies olarak kalır.
func buildTree(comments []models.Comment) []models.CommentNode {
	// parent id → çocuk yorumlar. Kökler "" anahtarında toplanır.
	children := make(map[string][]models.Comment)
	for _, c := range comments {
		key := ""
		if c.ParentID != nil {
			key = *c.ParentID
		}
		children[key] = append(children[key], c)
	}

	return buildLevel(children[""], children, map[string]bool{})
}

// buildLevel, bir kardeş grubunu sıralayıp her birinin alt ağacını kurar.
// ancestors, kökten bu seviyeye kadarki yol üzerindeki id'lerdir.
func buildLevel(siblings []models.Comment, children map[string][]models.Comment, ancestors map[string]bool) []models.CommentNode {
	sort.Slice(siblings, func(i, j int) bool {
		if !siblings[i].CreatedAt.Equal(siblings[j].CreatedAt) {
			return siblings[i].CreatedAt.After(siblings[j].CreatedAt)
		}
		return siblings[i].ID > siblings[j].ID
	})

	// Boş slice (nil değil) — JSON'da null yerine [] serialize olur.
	nodes := make([]models.CommentNode, 0, len(siblings))
	for _, c := range siblings {
		// Döngü koruması: bu id yol üzerinde zaten varsa dal kesilir.
		if ancestors[c.ID] {
			continue
		}

		node := models.CommentNode{
			ID:        c.ID,
			Content:   c.Content,
			ParentID:  c.ParentID,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Replies:   []models.CommentNode{},
		}
		if c.Author != nil {
			node.Author = *c.Author
		}

		if sub, ok := children[c.ID]; ok {
			ancestors[c.ID] = true
			node.Replies = buildLevel(sub, children, ancestors)
			delete(ancestors, c.ID)
		}

		nodes = append(nodes, node)
	}

	return nodes
}
