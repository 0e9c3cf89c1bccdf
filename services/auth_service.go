package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/emirpasa/kalem/config"
	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
	"github.com/emirpasa/kalem/pkg/email"
	"github.com/emirpasa/kalem/repository"
)

const (
	// bcryptCost 12: varsayılan 10'dan bilinçli olarak yüksek.
	// Her login ~250ms hash süresi öder — offline brute-force'u pahalılaştırır.
	bcryptCost = 12

	// resetTokenBytes, şifre sıfırlama token'ının entropi miktarı.
	resetTokenBytes = 32

	// resetTokenTTL, reset linkinin geçerlilik süresi.
	resetTokenTTL = 20 * time.Minute

	// resetRequestCooldown, aynı kullanıcı için iki reset isteği arasındaki
	// minimum süre. Email bombardımanını önler.
	resetRequestCooldown = 90 * time.Second
)

// invalidCredentialsMsg, login hatalarının TEK mesajıdır.
// "kullanıcı yok" ile "şifre yanlış" ayrımı yapılmaz — yapılırsa
// saldırgan hangi username'lerin kayıtlı olduğunu öğrenir (enumeration).
const invalidCredentialsMsg = "invalid username or password"

// AuthService, kayıt/giriş/token yenileme/şifre sıfırlama akışlarını yönetir.
type AuthService struct {
	userRepo    repository.UserRepository
	refreshRepo repository.RefreshTokenRepository
	resetRepo   repository.ResetTokenRepository
	tokens      *TokenService
	// emailSender nil olabilir — RESEND_API_KEY set edilmediyse şifre
	// sıfırlama emaili sessizce atlanır (development kolaylığı).
	emailSender   email.EmailSender
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewAuthService, constructor.
func NewAuthService(
	userRepo repository.UserRepository,
	refreshRepo repository.RefreshTokenRepository,
	resetRepo repository.ResetTokenRepository,
	tokens *TokenService,
	emailSender email.EmailSender,
	cfg config.JWTConfig,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		refreshRepo:   refreshRepo,
		resetRepo:     resetRepo,
		tokens:        tokens,
		emailSender:   emailSender,
		refreshExpiry: time.Duration(cfg.RefreshTokenExpiry) * 24 * time.Hour,
		now:           time.Now,
	}
}

// Register, yeni kullanıcı kaydı yapar ve hemen oturum açar.
//
// Çakışma kontrol SIRASI sözleşmedir: önce username, sonra email.
// İkisi de çakışıyorsa client her zaman username hatasını görür.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Ön kontrol: okunabilir hata mesajları için. Yarış durumunda
	// (iki eşzamanlı kayıt) son savunma hattı DB'nin UNIQUE constraint'idir.
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if req.DisplayName != "" {
		user.DisplayName = &req.DisplayName
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user)
}

// Login, kullanıcı adı + şifre ile oturum açar.
//
// Kontrol sırası bilinçlidir:
//  1. Kullanıcı bulunamadı      → uniform unauthorized
//  2. Şifre yanlış              → uniform unauthorized
//  3. Hesap pasif (şifre DOĞRU) → ErrInactiveAccount
//
// Inactive kontrolü bcrypt'ten SONRA gelir: şifreyi bilmeyen biri
// hesabın pasif olduğunu öğrenemez.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", pkg.ErrUnauthorized, invalidCredentialsMsg)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrUnauthorized, invalidCredentialsMsg)
	}

	if !user.IsActive {
		return nil, pkg.ErrInactiveAccount
	}

	return s.issueSession(ctx, user)
}

// RefreshToken, refresh token rotasyonu yapar.
//
// Eski kayıt iptal EDİLMEZ — doğal süresiyle ölür. İstemci her rotasyonda
// yeni token'a geçtiği için eski token pratikte kullanılmaz kalır; ağ
// hatası yüzünden yanıtı kaçıran istemci eski token'la tekrar deneyebilir.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.AuthResponse, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", pkg.ErrBadRequest)
	}

	record, err := s.refreshRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if !record.IsValid(s.now()) {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", pkg.ErrUnauthorized)
	}

	// Kullanıcı durumu HER yenilemede tazeden kontrol edilir — 7 günlük
	// refresh penceresi boyunca pasifleştirilen hesap token yenileyemez.
	user, err := s.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, pkg.ErrInactiveAccount
	}

	return s.issueSession(ctx, user)
}

// RevokeRefreshToken, oturumu kapatır (logout).
// Idempotent: bilinmeyen veya zaten iptal edilmiş token da başarı döner —
// logout her koşulda "başarılı" olmalıdır.
func (s *AuthService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("%w: refresh token is required", pkg.ErrBadRequest)
	}
	return s.refreshRepo.Revoke(ctx, refreshToken)
}

// issueSession, access + refresh token çifti üretir ve refresh kaydını yazar.
func (s *AuthService) issueSession(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshSecret, err := s.tokens.NewRefreshSecret()
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		Token:     refreshSecret,
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.refreshExpiry),
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshSecret,
	}, nil
}

// ForgotPassword, şifre sıfırlama emaili gönderir.
//
// Her durumda nil döner (email kayıtlı değilse bile) — aksi halde bu
// endpoint, hangi emaillerin kayıtlı olduğunu sızdıran bir oracle olur.
func (s *AuthService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	if !user.IsActive {
		return nil
	}

	// Cooldown: son istekten bu yana 90 saniye geçmediyse sessizce atla.
	if last, err := s.resetRepo.GetLatestByUserID(ctx, user.ID); err == nil {
		if s.now().Sub(last.CreatedAt) < resetRequestCooldown {
			return nil
		}
	} else if !errors.Is(err, pkg.ErrNotFound) {
		return err
	}

	if s.emailSender == nil {
		log.Printf("[auth] email sender not configured, skipping password reset for %s", user.ID)
		return nil
	}

	plaintext, tokenHash, err := newResetToken()
	if err != nil {
		return err
	}

	record := &models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: s.now().Add(resetTokenTTL),
	}
	if err := s.resetRepo.Create(ctx, record); err != nil {
		return err
	}

	if err := s.emailSender.SendPasswordReset(ctx, user.Email, plaintext); err != nil {
		// Email gidemezse kaydı geri al — kullanıcı 90 saniye boyunca
		// hiç almadığı bir emailin cooldown'ına takılmasın.
		if delErr := s.resetRepo.DeleteByID(ctx, record.ID); delErr != nil {
			log.Printf("[auth] failed to clean up reset token after send failure: %v", delErr)
		}
		return err
	}

	return nil
}

// ResetPassword, reset token ile yeni şifre belirler.
func (s *AuthService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	record, err := s.resetRepo.GetByTokenHash(ctx, hashResetToken(req.Token))
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
		}
		return err
	}

	if s.now().After(record.ExpiresAt) {
		// Süresi geçmiş kaydı hemen temizle — janitor'ı beklemeye gerek yok.
		if delErr := s.resetRepo.DeleteByID(ctx, record.ID); delErr != nil {
			log.Printf("[auth] failed to delete expired reset token: %v", delErr)
		}
		return fmt.Errorf("%w: invalid or expired reset token", pkg.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, record.UserID, string(hash)); err != nil {
		return err
	}

	// Kullanıcının TÜM reset tokenları silinir — eski linkler ölür.
	if err := s.resetRepo.DeleteByUserID(ctx, record.UserID); err != nil {
		log.Printf("[auth] failed to delete reset tokens after password change: %v", err)
	}

	return nil
}

// CleanupExpiredTokens, süresi geçmiş refresh ve reset tokenlarını siler.
// Janitor goroutine tarafından periyodik çağrılır.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) {
	if n, err := s.refreshRepo.DeleteExpired(ctx); err != nil {
		log.Printf("[auth] refresh token cleanup failed: %v", err)
	} else if n > 0 {
		log.Printf("[auth] deleted %d expired refresh tokens", n)
	}

	if n, err := s.resetRepo.DeleteExpired(ctx); err != nil {
		log.Printf("[auth] reset token cleanup failed: %v", err)
	} else if n > 0 {
		log.Printf("[auth] deleted %d expired reset tokens", n)
	}
}

// newResetToken, plaintext token ve onun SHA256 hex hash'ini üretir.
func newResetToken() (plaintext string, tokenHash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	plaintext = hex.EncodeToString(buf)
	return plaintext, hashResetToken(plaintext), nil
}

// hashResetToken, plaintext token'ın DB'de saklanan hash'ini hesaplar.
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
