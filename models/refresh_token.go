package models

import "time"

// RefreshToken, uzun ömürlü opaque refresh secret'ının DB kaydı.
//
// Neden refresh token ayrı tabloda?
// Access token kısa ömürlü (15dk) — imza doğrulaması yeterli, DB'ye gitmez.
// Refresh token uzun ömürlü (7 gün) — access token yenilemek için kullanılır.
// Refresh token'ları DB'de tutarak:
//   - Çalınan token'ı iptal edebiliriz (revoke)
//   - Kullanıcının tüm oturumlarını görebiliriz
//
// Revoke fiziksel silme DEĞİLDİR: RevokedAt set edilir (logical delete).
// Bir kullanıcı aynı anda birden fazla geçerli refresh token tutabilir
// (her cihaz için bir oturum) — single-session zorlaması yoktur.
type RefreshToken struct {
	ID        string     `json:"id"`
	Token     string     `json:"-"` // API'ye gönderilmez — sadece issue anında plaintext döner
	UserID    string     `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at"`
}

// IsValid, token'ın şu an kullanılabilir olup olmadığını döner.
// Geçerlilik türetilmiş bir değerdir: revoke edilmemiş VE süresi dolmamış.
func (t *RefreshToken) IsValid(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}
