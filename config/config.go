// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Tasarım kararı: Config bir kez yüklenir ve immutable snapshot olarak
// constructor'lara inject edilir. Hiçbir service her çağrıda os.Getenv()
// yapmaz — secret key gibi kritik değerler startup'ta bir kez çözülür,
// eksikse uygulama HİÇ başlamaz.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Email    EmailConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// Addr, "host:port" formatında listen adresi döner.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/kalem.db)
}

// JWTConfig, access token ve refresh token ayarları.
//
// Secret boş OLAMAZ — Load() bu durumda hata döner ve main startup'ı
// keser. Sessizce default bir secret'a düşmek güvenlik açığıdır.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	Issuer             string
	Audience           string
	AccessTokenExpiry  int // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int // Gün cinsinden (varsayılan: 7)
}

// RedisConfig, yorum ağacı cache'i için Redis ayarları.
type RedisConfig struct {
	Addr     string // host:port (ör: localhost:6379)
	Password string
	DB       int
	TreeTTL  time.Duration // Yorum ağacı cache TTL'i (varsayılan: 5 dakika)
}

// EmailConfig, şifre sıfırlama emaili için Resend ayarları.
// Üçü birden set edilmediyse email servisi devre dışı kalır.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	AppURL       string
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyasını yükle — dosya yoksa hata vermez, sessizce devam eder.
	// Production'da bu dosya olmaz, gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	treeTTLSeconds, err := strconv.Atoi(getEnv("COMMENT_TREE_TTL_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMMENT_TREE_TTL_SECONDS: %w", err)
	}

	// JWT secret zorunludur — yoksa uygulama başlamaz.
	// Bu kontrolün burada (startup'ta) olması kritik: eksik secret'ı
	// ilk login denemesinde keşfetmek yerine deploy anında keşfederiz.
	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/kalem.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			Issuer:             getEnv("JWT_ISSUER", "kalem"),
			Audience:           getEnv("JWT_AUDIENCE", "kalem-api"),
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TreeTTL:  time.Duration(treeTTLSeconds) * time.Second,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("RESEND_FROM", ""),
			AppURL:       getEnv("APP_URL", ""),
		},
	}

	return cfg, nil
}

// getEnv, environment variable okur; yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
