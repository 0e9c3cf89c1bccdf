package services

// Test fake'leri — DB olmadan service katmanını test etmek için
// repository interface'lerinin in-memory implementasyonları.
//
// Neden mock kütüphanesi değil?
// Basit map tabanlı fake'ler hem okunabilir hem de gerçek davranışa
// (ErrNotFound, sıralama, idempotency) daha yakındır.

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
)

// ─── fakeUserRepo ───

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // id → user
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		if u.Email == user.Email {
			return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
		}
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID string, newPasswordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return pkg.ErrNotFound
	}
	u.PasswordHash = newPasswordHash
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

// setActive, testlerde hesabı pasifleştirmek için yardımcı.
func (f *fakeUserRepo) setActive(id string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.IsActive = active
	}
}

// ─── fakeRefreshRepo ───

type fakeRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken // token string → kayıt
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshRepo) Create(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeRefreshRepo) GetByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeRefreshRepo) Revoke(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t, ok := f.tokens[token]; ok && t.RevokedAt == nil {
		now := time.Now()
		t.RevokedAt = &now
	}
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	now := time.Now()
	for key, t := range f.tokens {
		if t.ExpiresAt.Before(now) {
			delete(f.tokens, key)
			n++
		}
	}
	return n, nil
}

// ─── fakeResetRepo ───

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken // id → kayıt
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*models.PasswordResetToken)}
}

func (f *fakeResetRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	cp := *token
	f.tokens[token.ID] = &cp
	return nil
}

func (f *fakeResetRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range f.tokens {
		if t.TokenHash == tokenHash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeResetRepo) GetLatestByUserID(_ context.Context, userID string) (*models.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *models.PasswordResetToken
	for _, t := range f.tokens {
		if t.UserID != userID {
			continue
		}
		if latest == nil || t.CreatedAt.After(latest.CreatedAt) {
			latest = t
		}
	}
	if latest == nil {
		return nil, pkg.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeResetRepo) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, id)
	return nil
}

func (f *fakeResetRepo) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, t := range f.tokens {
		if t.UserID == userID {
			delete(f.tokens, id)
		}
	}
	return nil
}

func (f *fakeResetRepo) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	now := time.Now()
	for id, t := range f.tokens {
		if t.ExpiresAt.Before(now) {
			delete(f.tokens, id)
			n++
		}
	}
	return n, nil
}

// ─── fakePostRepo ───

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepo) Create(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	post.ID = uuid.NewString()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	cp := *post
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if p, ok := f.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, pkg.ErrNotFound
}

func (f *fakePostRepo) List(_ context.Context, limit, offset int) (*models.PostPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := make([]models.Post, 0, len(f.posts))
	for _, p := range f.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return &models.PostPage{Posts: nil}, nil
	}
	all = all[offset:]

	page := &models.PostPage{Posts: all}
	if len(all) > limit {
		page.Posts = all[:limit]
		page.HasMore = true
	}
	return page, nil
}

func (f *fakePostRepo) Update(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.posts[post.ID]; !ok {
		return pkg.ErrNotFound
	}
	cp := *post
	cp.UpdatedAt = time.Now()
	f.posts[post.ID] = &cp
	return nil
}

func (f *fakePostRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.posts[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts), nil
}

// ─── fakeCommentRepo ───

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*models.Comment
	// getCalls, GetByPostID çağrı sayacı — cache hit testleri için.
	getCalls int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	f.comments[comment.ID] = &cp
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.comments[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, pkg.ErrNotFound
}

func (f *fakeCommentRepo) GetByPostID(_ context.Context, postID string) ([]models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.getCalls++

	var out []models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.comments[comment.ID]; !ok {
		return pkg.ErrNotFound
	}
	cp := *comment
	cp.UpdatedAt = time.Now()
	f.comments[comment.ID] = &cp
	return nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.comments[id]; !ok {
		return pkg.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepo) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.comments), nil
}

// setParent, testlerde döngü kurmak için parent_id'yi doğrudan değiştirir
// (out-of-band düzenleme simülasyonu — parent_id FK değildir).
func (f *fakeCommentRepo) setParent(id string, parentID *string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.comments[id]; ok {
		c.ParentID = parentID
	}
}

// ─── fakePublisher ───

type publishedEvent struct {
	op      string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakePublisher) Publish(eventType string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{op: eventType, payload: payload})
}

func (f *fakePublisher) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.op
	}
	return out
}
