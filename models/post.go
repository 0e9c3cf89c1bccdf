package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Post, bir blog yazısını temsil eder.
// Author alanı JOIN ile doldurulur — DB'de ayrı tablodadır ama API
// response'unda birlikte döner.
type Post struct {
	ID           string       `json:"id"`
	AuthorID     string       `json:"author_id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Author       *UserSummary `json:"author,omitempty"`
	CommentCount int          `json:"comment_count"`
}

// PostPage, liste endpoint'inin sayfalama sonucu.
type PostPage struct {
	Posts   []Post `json:"posts"`
	HasMore bool   `json:"has_more"`
}

// CreatePostRequest, yeni yazı oluşturma isteği.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Validate, CreatePostRequest'in geçerli olup olmadığını kontrol eder.
// Başlık 1-200, içerik 1-50000 karakter (code point) arası olmalı.
func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	titleLen := utf8.RuneCountInString(r.Title)
	if titleLen < 1 {
		return fmt.Errorf("title is required")
	}
	if titleLen > 200 {
		return fmt.Errorf("title must be at most 200 characters")
	}

	r.Content = strings.TrimSpace(r.Content)
	contentLen := utf8.RuneCountInString(r.Content)
	if contentLen < 1 {
		return fmt.Errorf("post content is required")
	}
	if contentLen > 50000 {
		return fmt.Errorf("post content must be at most 50000 characters")
	}

	return nil
}

// UpdatePostRequest, yazı düzenleme isteği. Alanlar opsiyoneldir —
// nil olan alan değiştirilmez (PATCH semantiği).
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// Validate, UpdatePostRequest'in geçerli olup olmadığını kontrol eder.
func (r *UpdatePostRequest) Validate() error {
	if r.Title == nil && r.Content == nil {
		return fmt.Errorf("at least one of title or content is required")
	}

	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		titleLen := utf8.RuneCountInString(*r.Title)
		if titleLen < 1 || titleLen > 200 {
			return fmt.Errorf("title must be between 1 and 200 characters")
		}
	}

	if r.Content != nil {
		*r.Content = strings.TrimSpace(*r.Content)
		contentLen := utf8.RuneCountInString(*r.Content)
		if contentLen < 1 || contentLen > 50000 {
			return fmt.Errorf("post content must be between 1 and 50000 characters")
		}
	}

	return nil
}
