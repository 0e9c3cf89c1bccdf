package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/emirpasa/kalem/middleware"
	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
	"github.com/emirpasa/kalem/pkg/ratelimit"
	"github.com/emirpasa/kalem/services"
)

// CommentHandler, yorum endpoint'lerini yöneten struct.
type CommentHandler struct {
	commentService *services.CommentService
	// commentLimiter, kullanıcı bazlı yorum spam koruması.
	// nil ise rate limiting devre dışı kalır.
	commentLimiter *ratelimit.CommentRateLimiter
}

// NewCommentHandler, constructor.
func NewCommentHandler(commentService *services.CommentService, commentLimiter *ratelimit.CommentRateLimiter) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		commentLimiter: commentLimiter,
	}
}

// GetTree godoc
// GET /api/posts/{postId}/comments
// Yorumları iç içe ağaç olarak döner — kökler en yeniden eskiye sıralı.
func (h *CommentHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.commentService.GetTree(r.Context(), r.PathValue("postId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, tree)
}

// Create godoc
// POST /api/posts/{postId}/comments
// Body: { "content": "...", "parent_id": "..." } — parent_id opsiyonel.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	// Spam koruması: kullanıcı bazlı (IP değil) — aynı kullanıcı farklı
	// IP'lerden de olsa burst limitine takılır.
	if h.commentLimiter != nil && !h.commentLimiter.Allow(user.ID) {
		retryAfter := h.commentLimiter.RetryAfterSeconds(user.ID)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests,
			fmt.Sprintf("you are commenting too fast, please wait %d seconds", retryAfter))
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), r.PathValue("postId"), user, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, comment)
}

// Update godoc
// PATCH /api/comments/{commentId}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.commentService.Update(r.Context(), r.PathValue("commentId"), user, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, comment)
}

// Delete godoc
// DELETE /api/comments/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.commentService.Delete(r.Context(), r.PathValue("commentId"), user); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
