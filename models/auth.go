package models

// AuthResponse, login/register/refresh endpoint'lerinin ortak cevabı.
//
// RefreshToken burada json'a DAHİLDİR — client'a teslim edilen tek an
// budur. DB tarafında ise RefreshToken.Token json:"-" ile gizlidir.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshRequest, access token yenileme isteği.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest, refresh token iptal isteği.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
