package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxCommentDepth, bir yorumun alabileceği maksimum derinlik.
// 0 = kök yorum; her reply seviyesi +1. Derinliği 3 olan bir yoruma
// reply verilemez (child depth 4 olurdu).
const MaxCommentDepth = 3

// MaxCommentLength, yorum içeriğinin code point cinsinden üst sınırı.
const MaxCommentLength = 2000

// Comment, DB'deki "comments" tablosunun Go karşılığı — düz (flat) kayıt.
//
// ParentID bir FK DEĞİLDİR ve reply zinciri yapısal olarak garanti altında
// değildir: out-of-band düzenlemeler döngü yaratabilir. Ağacı gezen her kod
// (bkz. services.CommentService) veriyi potansiyel döngülü kabul etmek
// ZORUNDADIR.
type Comment struct {
	ID        string       `json:"id"`
	PostID    string       `json:"post_id"`
	AuthorID  string       `json:"author_id"`
	ParentID  *string      `json:"parent_id"` // nil → kök yorum
	Depth     int          `json:"depth"`     // Invariant: Depth = parent.Depth + 1, kökte 0
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Author    *UserSummary `json:"author,omitempty"` // JOIN ile gelen yazar bilgisi
}

// CommentNode, yorum ağacının bir düğümü — türetilmiş, geçici bir görünümdür.
// Comment kayıtlarından her seferinde taze inşa edilir, kısa TTL ile
// cache'lenir, hiçbir zaman entity olarak persist edilmez.
type CommentNode struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Author    UserSummary   `json:"author"`
	ParentID  *string       `json:"parent_id"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Replies   []CommentNode `json:"replies"`
}

// CreateCommentRequest, yeni yorum oluşturma isteği.
// ParentID nil ise kök yorum, doluysa reply.
type CreateCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// Validate, CreateCommentRequest'in geçerli olup olmadığını kontrol eder.
// İçerik 1-2000 code point arası olmalı.
func (r *CreateCommentRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 {
		return fmt.Errorf("comment content is required")
	}
	if contentLen > MaxCommentLength {
		return fmt.Errorf("comment content must be at most %d characters", MaxCommentLength)
	}

	if r.ParentID != nil && strings.TrimSpace(*r.ParentID) == "" {
		return fmt.Errorf("parent_id must not be empty when provided")
	}

	return nil
}

// UpdateCommentRequest, yorum düzenleme isteği.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// Validate, UpdateCommentRequest'in geçerli olup olmadığını kontrol eder.
func (r *UpdateCommentRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 {
		return fmt.Errorf("comment content is required")
	}
	if contentLen > MaxCommentLength {
		return fmt.Errorf("comment content must be at most %d characters", MaxCommentLength)
	}
	return nil
}
