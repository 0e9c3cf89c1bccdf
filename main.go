// Package main, kalem backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'lar ile)
//  3. Redis bağlantısını aç (yorum ağacı cache'i)
//  4. WebSocket Hub'ı başlat
//  5. Repository'leri oluştur (DB bağlantısı ile)
//  6. Service'leri oluştur (repository'ler + hub + cache ile)
//  7. Handler'ları oluştur (service'ler ile)
//  8. HTTP router'ı kur, route'ları bağla
//  9. CORS yapılandır
//  10. Token janitor goroutine'ini başlat
//  11. HTTP Server'ı başlat
//  12. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/emirpasa/kalem/config"
	"github.com/emirpasa/kalem/database"
	"github.com/emirpasa/kalem/pkg/cache"
	"github.com/emirpasa/kalem/ws"
)

// tokenCleanupInterval, süresi geçmiş refresh/reset tokenlarının
// periyodik temizlenme aralığı.
const tokenCleanupInterval = 1 * time.Hour

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] kalem server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	// Migration'lar binary'ye gömülüdür (go:embed) — deploy'da ayrıca
	// SQL dosyası taşımaya gerek yok.
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Redis (yorum ağacı cache'i) ───
	// Bağlantı hatası startup'ı DURDURMAZ — cache katmanı fail-open
	// çalışır, Redis yoksa her okuma DB'ye düşer.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[main] redis unreachable at %s (cache disabled until it recovers): %v", cfg.Redis.Addr, err)
	} else {
		log.Printf("[main] redis connected (%s)", cfg.Redis.Addr)
	}
	pingCancel()

	treeCache := cache.New(rdb)

	// ─── 4. WebSocket Hub ───
	// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
	// `go hub.Run()` ayrı bir goroutine'de event loop başlatır.
	// Hub aynı zamanda services.EventPublisher interface'ini karşılar —
	// service'ler hub'a doğrudan bağımlı olmak yerine interface üzerinden erişir.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5-6. Repository + Service Katmanları ───
	repos := initRepositories(db.Conn)

	svcs, limiters, err := initServices(repos, treeCache, hub, cfg)
	if err != nil {
		log.Fatalf("[main] failed to initialize services: %v", err)
	}
	defer limiters.Login.Close()
	defer limiters.Comment.Close()

	// ─── 7-8. Handler + Route Katmanları ───
	h := initHandlers(svcs, limiters, hub)

	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Token, repos.User)

	// ─── 9. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:3000", // Vite dev server
			"http://localhost:5173",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := corsHandler.Handler(mux)

	// ─── 10. Token Janitor ───
	// Süresi geçmiş refresh/reset tokenları periyodik siler. Janitor
	// durmasa bile doğruluk bozulmaz — geçerlilik her kullanımda kontrol
	// edilir, bu sadece tablo büyümesini sınırlar.
	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(tokenCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				svcs.Auth.CleanupExpiredTokens(janitorCtx)
			case <-janitorCtx.Done():
				return
			}
		}
	}()

	// ─── 11. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 12. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	janitorCancel()

	// Önce WebSocket bağlantılarını kapat, sonra HTTP server'ı —
	// yeni request kabul edilmez, mevcut request'ler 5sn içinde biter.
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
