package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
	"github.com/emirpasa/kalem/pkg/cache"
)

const testTreeTTL = 5 * time.Minute

// newTestCommentService, miniredis destekli CommentService kurar.
// miniredis: gerçek Redis protokolünü konuşan in-memory test sunucusu —
// TTL ilerletme (FastForward) gibi senaryolar gerçek Redis'siz test edilir.
func newTestCommentService(t *testing.T) (*CommentService, *fakeCommentRepo, *fakePostRepo, *fakePublisher, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	comments := newFakeCommentRepo()
	posts := newFakePostRepo()
	events := &fakePublisher{}

	svc := NewCommentService(comments, posts, cache.New(rdb), testTreeTTL, events)
	return svc, comments, posts, events, mr
}

func testActor() *models.User {
	return &models.User{
		ID:       "author-1",
		Username: "emir",
		Role:     models.RoleUser,
		IsActive: true,
	}
}

func createTestPost(t *testing.T, posts *fakePostRepo) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: "author-1", Title: "başlık", Content: "içerik"}
	if err := posts.Create(context.Background(), post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func strPtr(s string) *string { return &s }

func TestCreateCommentDepthChain(t *testing.T) {
	svc, _, posts, _, _ := newTestCommentService(t)
	ctx := context.Background()
	actor := testActor()
	post := createTestPost(t, posts)

	// Kök → depth 0, her reply seviyesi +1. Depth 3'teki yoruma reply
	// reddedilir.
	root, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "kök"})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if root.Depth != 0 {
		t.Fatalf("root depth: got %d, want 0", root.Depth)
	}

	parent := root
	for wantDepth := 1; wantDepth <= models.MaxCommentDepth; wantDepth++ {
		reply, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{
			Content:  "reply",
			ParentID: &parent.ID,
		})
		if err != nil {
			t.Fatalf("create reply at depth %d: %v", wantDepth, err)
		}
		if reply.Depth != wantDepth {
			t.Fatalf("reply depth: got %d, want %d", reply.Depth, wantDepth)
		}
		parent = reply
	}

	// parent.Depth == 3 — bir seviye daha izin YOK.
	_, err = svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{
		Content:  "too deep",
		ParentID: &parent.ID,
	})
	if !errors.Is(err, pkg.ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestCreateCommentParentValidation(t *testing.T) {
	svc, _, posts, _, _ := newTestCommentService(t)
	ctx := context.Background()
	actor := testActor()
	post := createTestPost(t, posts)
	otherPost := createTestPost(t, posts)

	// Bilinmeyen parent → 404.
	_, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{
		Content:  "x",
		ParentID: strPtr("no-such-comment"),
	})
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown parent, got %v", err)
	}

	// Parent başka yazıda → bu yazı kapsamında yok demektir, 404.
	// Var olmayan parent ile aynı hata türü dönmeli.
	foreign, err := svc.Create(ctx, otherPost.ID, actor, &models.CreateCommentRequest{Content: "başka yazıda"})
	if err != nil {
		t.Fatalf("create foreign comment: %v", err)
	}
	_, err = svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{
		Content:  "x",
		ParentID: &foreign.ID,
	})
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for cross-post parent, got %v", err)
	}

	// Bilinmeyen yazı → 404.
	_, err = svc.Create(ctx, "no-such-post", actor, &models.CreateCommentRequest{Content: "x"})
	if !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown post, got %v", err)
	}
}

func TestGetTreeShape(t *testing.T) {
	svc, _, posts, _, _ := newTestCommentService(t)
	ctx := context.Background()
	actor := testActor()
	post := createTestPost(t, posts)

	rootA, _ := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "A"})
	rootB, _ := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "B"})
	replyA1, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{
		Content: "A1", ParentID: &rootA.ID,
	})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	tree, err := svc.GetTree(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}

	// Kök seviyede SADECE parent'sız yorumlar olmalı — reply kökte görünmez.
	if len(tree) != 2 {
		t.Fatalf("root count: got %d, want 2", len(tree))
	}
	for _, node := range tree {
		if node.ParentID != nil {
			t.Errorf("non-root node %q at root level", node.ID)
		}
		if node.ID == replyA1.ID {
			t.Error("reply must not appear at root level")
		}
	}

	var foundReply bool
	for _, node := range tree {
		switch node.ID {
		case rootA.ID:
			if len(node.Replies) != 1 || node.Replies[0].ID != replyA1.ID {
				t.Errorf("rootA replies: got %+v", node.Replies)
			} else {
				foundReply = true
			}
		case rootB.ID:
			if len(node.Replies) != 0 {
				t.Errorf("rootB should have no replies")
			}
			// Boş replies nil değil [] olmalı — JSON'da null yerine [].
			if node.Replies == nil {
				t.Error("empty replies must be a non-nil slice")
			}
		}
	}
	if !foundReply {
		t.Error("reply not found under its parent")
	}

	if tree[0].Author.Username != "emir" {
		t.Errorf("author summary missing: %+v", tree[0].Author)
	}
}

func TestGetTreeUnknownPost(t *testing.T) {
	svc, _, _, _, _ := newTestCommentService(t)

	if _, err := svc.GetTree(context.Background(), "no-such-post"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTreeUsesCache(t *testing.T) {
	svc, comments, posts, _, mr := newTestCommentService(t)
	ctx := context.Background()
	actor := testActor()
	post := createTestPost(t, posts)

	if _, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	comments.getCalls = 0

	// İlk okuma DB'ye gider, ikincisi cache'ten döner.
	if _, err := svc.GetTree(ctx, post.ID); err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if _, err := svc.GetTree(ctx, post.ID); err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if comments.getCalls != 1 {
		t.Fatalf("repo calls after cached read: got %d, want 1", comments.getCalls)
	}

	// TTL dolunca cache düşer, DB'ye tekrar gidilir.
	mr.FastForward(testTreeTTL + time.Second)
	if _, err := svc.GetTree(ctx, post.ID); err != nil {
		t.Fatalf("GetTree after TTL: %v", err)
	}
	if comments.getCalls != 2 {
		t.Fatalf("repo calls after TTL expiry: got %d, want 2", comments.getCalls)
	}
}

func TestGetTreeCacheHitSkipsPostLookup(t *testing.T) {
	svc, _, posts, _, _ := newTestCommentService(t)
	ctx := context.Background()
	actor := testActor()
	post := createTestPost(t, posts)

	if _, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetTree(ctx, post.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	// Yazı TTL penceresi içinde silinirse cache'lenmiş ağaç yine de
	// servis edilir — hit path'i primary store'a HİÇ dokunmaz.
	if err := posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}

	tree, err := svc.GetTree(ctx, post.ID)
	if err != nil {
		t.Fatalf("expected cached tree after post delete, got %v", err)
	}
	if len(tree) != 1 || tree[0].Content != "A" {
		t.Fatalf("cached tree: %+v", tree)
	}
}

func TestGetTreeEmptyCachedTreeIsAMiss(t *testing.T) {
	svc, comments, posts, _, _ := newTestCommentService(t)
	ctx := context.Background()
	post := createTestPost(t, posts)

	// Yorumsuz yazı: boş ağaç cache'e yazılsa da hit sayılmaz — her
	// okuma miss path'inden geçer ve yazı varlığı doğrulanır.
	for i := 1; i <= 2; i++ {
		tree, err := svc.GetTree(ctx, post.ID)
		if err != nil {
			t.Fatalf("GetTree #%d: %v", i, err)
		}
		if tree == nil || len(tree) != 0 {
			t.Fatalf("expected empty non-nil tree, got %+v", tree)
		}
		if comments.getCalls != i {
			t.Fatalf("repo calls after read %d: got %d, want %d", i, comments.getCalls, i)
		}
	}

	// Miss path'i yazıyı kontrol eder — silinmiş yazı boş ağaç değil
	// 404 döner.
	if err := posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := svc.GetTree(ctx, post.ID); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted post with empty tree, got %v", err)
	}
}

func TestWritePathsInvalidateCache(t *testing.T) {
	svc, comments, posts, _, _ := newTestCommentService(t)
	ctx := context.Background()
	actor := testActor()
	post := createTestPost(t, posts)

	first, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetTree(ctx, post.ID); err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	comments.getCalls = 0

	// Yeni yorum cache'i düşürür — TTL beklemeden taze ağaç okunur.
	if _, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "B"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	tree, err := svc.GetTree(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if comments.getCalls != 1 {
		t.Fatalf("expected fresh read after create, repo calls = %d", comments.getCalls)
	}
	if len(tree) != 2 {
		t.Fatalf("tree roots: got %d, want 2", len(tree))
	}

	// Silme de düşürür.
	if err := svc.Delete(ctx, first.ID, actor); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tree, err = svc.GetTree(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if len(tree) != 1 {
		t.Fatalf("tree roots after delete: got %d, want 1", len(tree))
	}
}

func TestCommentEventsPublished(t *testing.T) {
	svc, _, posts, events, _ := newTestCommentService(t)
	ctx := context.Background()
	actor := testActor()
	post := createTestPost(t, posts)

	c, err := svc.Create(ctx, post.ID, actor, &models.CreateCommentRequest{Content: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, c.ID, actor); err != nil {
		t.Fatalf("delete: %v", err)
	}

	ops := events.ops()
	if len(ops) != 2 || ops[0] != "comment_create" || ops[1] != "comment_delete" {
		t.Fatalf("published ops: got %v", ops)
	}
}

func TestCommentAuthorization(t *testing.T) {
	svc, _, posts, _, _ := newTestCommentService(t)
	ctx := context.Background()
	author := testActor()
	post := createTestPost(t, posts)

	c, err := svc.Create(ctx, post.ID, author, &models.CreateCommentRequest{Content: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stranger := &models.User{ID: "other-1", Username: "yabanci", Role: models.RoleUser}
	admin := &models.User{ID: "admin-1", Username: "patron", Role: models.RoleAdmin}

	if _, err := svc.Update(ctx, c.ID, stranger, &models.UpdateCommentRequest{Content: "hack"}); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("stranger update: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, c.ID, stranger); !errors.Is(err, pkg.ErrForbidden) {
		t.Fatalf("stranger delete: expected ErrForbidden, got %v", err)
	}

	// Admin başkasının yorumunu silebilir.
	if err := svc.Delete(ctx, c.ID, admin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

// ─── buildTree birim testleri ───
//
// Sıralama ve döngü davranışı deterministik girdiyle doğrudan test edilir —
// service seviyesinde CreatedAt değerleri duvar saatinden geldiği için
// sıralama senaryoları orada güvenilir kurulamaz.

func flatComment(id string, parentID *string, createdAt time.Time) models.Comment {
	return models.Comment{
		ID:        id,
		PostID:    "p1",
		AuthorID:  "author-1",
		ParentID:  parentID,
		Content:   "c-" + id,
		CreatedAt: createdAt,
		Author:    &models.UserSummary{ID: "author-1", Username: "emir", DisplayName: "emir"},
	}
}

func TestBuildTreeSiblingOrdering(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	comments := []models.Comment{
		flatComment("old", nil, base),
		flatComment("new", nil, base.Add(2*time.Minute)),
		flatComment("mid", nil, base.Add(time.Minute)),
	}

	tree := buildTree(comments)
	if len(tree) != 3 {
		t.Fatalf("roots: got %d, want 3", len(tree))
	}

	// En yeni önce.
	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if tree[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, tree[i].ID, id)
		}
	}
}

func TestBuildTreeTimestampTieBreak(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	comments := []models.Comment{
		flatComment("aaa", nil, ts),
		flatComment("zzz", nil, ts),
		flatComment("mmm", nil, ts),
	}

	// Aynı girdi her çağrıda aynı çıktıyı üretmeli.
	first := buildTree(comments)
	for i := 0; i < 10; i++ {
		again := buildTree(comments)
		for j := range first {
			if first[j].ID != again[j].ID {
				t.Fatalf("ordering not deterministic: run %d position %d", i, j)
			}
		}
	}

	// Eşit zamanda id'ye göre azalan.
	want := []string{"zzz", "mmm", "aaa"}
	for i, id := range want {
		if first[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, first[i].ID, id)
		}
	}
}

func TestBuildTreeDropsOrphans(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	comments := []models.Comment{
		flatComment("root", nil, base),
		flatComment("orphan", strPtr("deleted-parent"), base.Add(time.Minute)),
	}

	tree := buildTree(comments)
	if len(tree) != 1 || tree[0].ID != "root" {
		t.Fatalf("orphan must not surface anywhere, got %+v", tree)
	}
}

func TestBuildTreeTerminatesOnCycles(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// parent_id FK olmadığı için out-of-band düzenleme böyle bir veri
	// bırakabilir: a↔b birbirinin parent'ı, c kendi kendisinin parent'ı.
	comments := []models.Comment{
		flatComment("root", nil, base),
		flatComment("a", strPtr("b"), base.Add(time.Minute)),
		flatComment("b", strPtr("a"), base.Add(2*time.Minute)),
		flatComment("self", strPtr("self"), base.Add(3*time.Minute)),
	}

	done := make(chan []models.CommentNode, 1)
	go func() { done <- buildTree(comments) }()

	select {
	case tree := <-done:
		// Döngüdeki yorumlar kök olmadığı için ağaçta görünmez;
		// önemli olan sonsuz döngüye girmemek ve hata dönmemektir.
		if len(tree) != 1 || tree[0].ID != "root" {
			t.Fatalf("unexpected tree: %+v", tree)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("buildTree did not terminate on cyclic input")
	}
}

func TestBuildTreeNestedReplies(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	comments := []models.Comment{
		flatComment("root", nil, base),
		flatComment("child", strPtr("root"), base.Add(time.Minute)),
		flatComment("grandchild", strPtr("child"), base.Add(2*time.Minute)),
	}

	tree := buildTree(comments)
	if len(tree) != 1 {
		t.Fatalf("roots: got %d, want 1", len(tree))
	}
	if len(tree[0].Replies) != 1 || tree[0].Replies[0].ID != "child" {
		t.Fatalf("child missing: %+v", tree[0].Replies)
	}
	if len(tree[0].Replies[0].Replies) != 1 || tree[0].Replies[0].Replies[0].ID != "grandchild" {
		t.Fatalf("grandchild missing: %+v", tree[0].Replies[0].Replies)
	}
}
