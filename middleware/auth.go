// Package middleware, HTTP middleware'lerini içerir.
//
// Middleware nedir?
// Request handler'a ulaşmadan ÖNCE çalışan ara katmandır.
// Auth middleware: "Bu istekte geçerli bir token var mı?" sorusunu
// tek bir yerde cevaplar — her handler'da tekrar tekrar yazılmaz.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
	"github.com/emirpasa/kalem/repository"
	"github.com/emirpasa/kalem/services"
)

// contextKey, context.Value çakışmalarını önlemek için özel tip.
//
// Neden string değil?
// Başka bir paket de context'e "user" key'i ile değer koyabilir —
// özel tip sayesinde bizim key'imiz sadece bu paketten erişilebilir olur.
type contextKey string

// UserContextKey, doğrulanmış kullanıcının context'teki anahtarı.
const UserContextKey contextKey = "user"

// RequireAuth, Bearer token doğrulayan middleware üretir.
//
// Akış:
//  1. Authorization: Bearer <token> header'ından token alınır
//  2. Token imza + süre doğrulamasından geçer
//  3. Kullanıcı DB'den TAZE okunur — token geçerli olsa bile bu arada
//     silinen/pasifleştirilen hesap içeri giremez
//  4. *models.User context'e konur, handler GetUserFromContext ile okur
func RequireAuth(tokens *services.TokenService, userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			claims, err := tokens.ValidateAccessToken(token, false)
			if err != nil || claims == nil {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			user, err := userRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if !user.IsActive {
				pkg.Error(w, pkg.ErrInactiveAccount)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext, middleware'in koyduğu kullanıcıyı döner.
// Auth middleware'den geçmemiş bir route'ta çağrılırsa (nil, false) döner.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}
