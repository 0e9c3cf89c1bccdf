// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
package main

import (
	"net/http"

	"github.com/emirpasa/kalem/middleware"
	"github.com/emirpasa/kalem/repository"
	"github.com/emirpasa/kalem/services"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerden ÖNCE
// tanımlanmalı — yoksa Go router literal kelimeyi parametre sanır.
// Bu API'de çakışan pattern yok; kural yine de korunuyor.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	tokens *services.TokenService,
	userRepo repository.UserRepository,
) {
	// ─── Middleware ───
	authMw := middleware.RequireAuth(tokens, userRepo)

	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw(http.HandlerFunc(handler))
	}

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", h.Auth.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", h.Auth.ResetPassword)

	// User
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))

	// Posts — okuma public, yazma auth gerektirir
	mux.HandleFunc("GET /api/posts", h.Post.List)
	mux.HandleFunc("GET /api/posts/{postId}", h.Post.Get)
	mux.Handle("POST /api/posts", auth(h.Post.Create))
	mux.Handle("PATCH /api/posts/{postId}", auth(h.Post.Update))
	mux.Handle("DELETE /api/posts/{postId}", auth(h.Post.Delete))

	// Comments — ağaç okuma public, yazma auth gerektirir
	mux.HandleFunc("GET /api/posts/{postId}/comments", h.Comment.GetTree)
	mux.Handle("POST /api/posts/{postId}/comments", auth(h.Comment.Create))
	mux.Handle("PATCH /api/comments/{commentId}", auth(h.Comment.Update))
	mux.Handle("DELETE /api/comments/{commentId}", auth(h.Comment.Delete))

	// Stats
	mux.HandleFunc("GET /api/stats", h.Stats.GetStats)

	// WebSocket — token query parameter ile authenticate edilir.
	// WebSocket upgrade sırasında tarayıcılar custom HTTP header gönderemez;
	// JWT, ws://server/ws?token=... olarak gönderilir ve handler kendi
	// içinde doğrular.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
