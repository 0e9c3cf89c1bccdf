// Package services, iş mantığı (business logic) katmanını içerir.
//
// Service katmanı nedir?
// Handler'lar HTTP'yi bilir, repository'ler SQL'i bilir — service katmanı
// ikisinin ortasında İŞ KURALLARINI bilir: "şifre bcrypt ile doğrulanır",
// "yorum derinliği 3'ü geçemez", "refresh token rotasyonla yenilenir" gibi.
//
// Service'ler repository INTERFACE'lerine bağımlıdır, concrete struct'lara
// değil — bu sayede testlerde fake repository inject edilebilir.
package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/emirpasa/kalem/config"
	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
)

// refreshSecretBytes, refresh token'ın entropi miktarı.
// 64 byte = 512 bit — brute-force pratikte imkansız.
const refreshSecretBytes = 64

// TokenService, JWT access token üretimi/doğrulaması ve refresh token
// secret üretiminden sorumludur.
//
// Stateless tasarım: bu service DB'ye DOKUNMAZ. Token'ın DB'deki oturum
// kaydıyla eşleştirilmesi AuthService'in işidir. Bu ayrım sayesinde
// TokenService saf fonksiyon gibi test edilebilir.
type TokenService struct {
	secret       []byte
	issuer       string
	audience     string
	accessExpiry time.Duration
	// now, test'lerde zamanı sabitlemek için değiştirilebilir.
	now func() time.Time
}

// NewTokenService, constructor.
// Secret boşsa pkg.ErrConfigMissing döner — token imzalayamayan bir
// service'in yaşamaya hakkı yoktur, uygulama startup'ta çöker.
func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: JWT secret is empty", pkg.ErrConfigMissing)
	}

	return &TokenService{
		secret:       []byte(cfg.Secret),
		issuer:       cfg.Issuer,
		audience:     cfg.Audience,
		accessExpiry: time.Duration(cfg.AccessTokenExpiry) * time.Minute,
		now:          time.Now,
	}, nil
}

// IssueAccessToken, kullanıcı için imzalı bir HS256 JWT üretir.
//
// Claim'ler: user_id, username, role + standart kayıtlı claim'ler
// (iss, aud, exp, iat, jti). jti her çağrıda taze uuid'dir — aynı
// kullanıcı için peş peşe üretilen iki token bile ayırt edilebilir.
func (s *TokenService) IssueAccessToken(user *models.User) (string, error) {
	if user == nil || user.ID == "" || user.Username == "" || user.Role == "" {
		return "", fmt.Errorf("%w: user identity is incomplete", pkg.ErrBadRequest)
	}

	now := s.now()
	claims := models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			Subject:   user.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken, token'ı doğrular ve claim'leri döner.
//
// ignoreExpiry=true: imza ve algoritma yine de doğrulanır ama SADECE
// süre aşımı tolere edilir. Refresh akışı bunu kullanır — süresi geçmiş
// ama gerçek (bizim imzaladığımız) bir token'ın kim olduğunu bilmemiz
// gerekir.
//
// Dönüş sözleşmesi:
//   - Geçerli token          → (claims, nil)
//   - Boş string             → (nil, pkg.ErrBadRequest)
//   - Bozuk/yanlış imza/alg  → (nil, nil): token sadece geçersizdir,
//     sistemde bir hata yoktur. Çağıran nil claims'i "kimliksiz" okur.
//   - Süresi geçmiş          → ignoreExpiry ise (claims, nil), değilse (nil, nil)
func (s *TokenService) ValidateAccessToken(tokenString string, ignoreExpiry bool) (*models.TokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is empty", pkg.ErrBadRequest)
	}

	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		// Algoritma pinning: header'daki "alg" alanına GÜVENME.
		// "none" veya RS256'ya downgrade saldırılarını burada keser.
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)

	if err != nil {
		// Süre aşımı tek tolere edilebilir hata türüdür — ama sadece
		// ignoreExpiry açıkken VE başka hiçbir ihlal yokken.
		if ignoreExpiry && isExpiredOnly(err) {
			return claims, nil
		}
		return nil, nil
	}

	if !token.Valid {
		return nil, nil
	}

	return claims, nil
}

func (s *TokenService) keyFunc(_ *jwt.Token) (interface{}, error) {
	return s.secret, nil
}

// isExpiredOnly, doğrulama hatasının SADECE süre aşımından ibaret olup
// olmadığını kontrol eder.
//
// jwt/v5 claim hatalarını tek bir error'da birleştirir (join): süresi
// geçmiş VE issuer'ı yanlış bir token'da errors.Is(err, ErrTokenExpired)
// yine true döner. Sadece ona bakmak, süresi dolmuş ama başka kuralları
// da ihlal eden token'ları refresh akışından içeri alırdı.
func isExpiredOnly(err error) bool {
	if !errors.Is(err, jwt.ErrTokenExpired) {
		return false
	}
	violations := []error{
		jwt.ErrTokenMalformed,
		jwt.ErrTokenUnverifiable,
		jwt.ErrTokenSignatureInvalid,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrTokenInvalidIssuer,
		jwt.ErrTokenInvalidAudience,
		jwt.ErrTokenInvalidSubject,
		jwt.ErrTokenInvalidId,
		jwt.ErrTokenRequiredClaimMissing,
	}
	for _, violation := range violations {
		if errors.Is(err, violation) {
			return false
		}
	}
	return true
}

// NewRefreshSecret, 64 byte kriptografik rastgelelikten opak bir refresh
// token string'i üretir (base64 URL-safe, padding'siz).
//
// Refresh token bir JWT DEĞİLDİR — içinde veri yoktur, sadece DB'deki
// oturum kaydına işaret eden bir anahtardır. Bu yüzden iptal edilebilir.
func (s *TokenService) NewRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
