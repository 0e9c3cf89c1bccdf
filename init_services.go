// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
package main

import (
	"log"
	"time"

	"github.com/emirpasa/kalem/config"
	"github.com/emirpasa/kalem/pkg/cache"
	"github.com/emirpasa/kalem/pkg/email"
	"github.com/emirpasa/kalem/pkg/ratelimit"
	"github.com/emirpasa/kalem/services"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Token   *services.TokenService
	Auth    *services.AuthService
	Post    *services.PostService
	Comment *services.CommentService
	Stats   *services.StatsService
}

// RateLimiters, tüm rate limiter instance'larını tutan container.
type RateLimiters struct {
	Login   *ratelimit.LoginRateLimiter
	Comment *ratelimit.CommentRateLimiter
}

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
//
// events parametresi services.EventPublisher interface'idir — pratikte
// ws.Hub geçilir ama service'ler concrete tipi bilmez.
func initServices(repos *Repositories, treeCache *cache.Cache, events services.EventPublisher, cfg *config.Config) (*Services, *RateLimiters, error) {
	// TokenService — secret eksikse burada çöker, uygulama hiç başlamaz.
	tokenService, err := services.NewTokenService(cfg.JWT)
	if err != nil {
		return nil, nil, err
	}

	// ─── Email service (opsiyonel) ───
	var emailSender email.EmailSender
	if cfg.Email.ResendAPIKey != "" && cfg.Email.FromEmail != "" && cfg.Email.AppURL != "" {
		emailSender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
		log.Printf("[main] email service enabled (from=%s)", cfg.Email.FromEmail)
	} else {
		log.Println("[main] email service disabled (RESEND_API_KEY, RESEND_FROM or APP_URL not set)")
	}

	authService := services.NewAuthService(
		repos.User, repos.RefreshToken, repos.ResetToken,
		tokenService, emailSender, cfg.JWT,
	)

	postService := services.NewPostService(repos.Post, treeCache, cfg.Redis.TreeTTL, events)
	commentService := services.NewCommentService(
		repos.Comment, repos.Post, treeCache, cfg.Redis.TreeTTL, events,
	)
	statsService := services.NewStatsService(repos.User, repos.Post, repos.Comment)

	// ─── Rate Limiters ───
	// Login: IP başına 2 dakikada 5 deneme.
	// Comment: kullanıcı başına 10 saniyede 5 yorum, aşımda 30sn cooldown.
	limiters := &RateLimiters{
		Login:   ratelimit.NewLoginRateLimiter(5, 2*time.Minute),
		Comment: ratelimit.NewCommentRateLimiter(5, 10*time.Second, 30*time.Second),
	}

	svcs := &Services{
		Token:   tokenService,
		Auth:    authService,
		Post:    postService,
		Comment: commentService,
		Stats:   statsService,
	}

	return svcs, limiters, nil
}
