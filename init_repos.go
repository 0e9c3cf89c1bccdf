// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *sql.DB bağlantısını alır ve interface döner.
// main.go'daki wire-up'ı modülerleştirmek için bu dosyaya taşındı.
package main

import (
	"database/sql"

	"github.com/emirpasa/kalem/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
//
// Neden struct? Ayrı ayrı değişkenler yerine tek struct kullanmak:
// 1. Fonksiyon imzalarını temiz tutar
// 2. Yeni repository eklendiğinde sadece struct + initRepositories güncellenir
// 3. IDE auto-complete ile kolay erişim (repos.User, repos.Post, vb.)
type Repositories struct {
	User         repository.UserRepository
	Post         repository.PostRepository
	Comment      repository.CommentRepository
	RefreshToken repository.RefreshTokenRepository
	ResetToken   repository.ResetTokenRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// Her NewSQLite* fonksiyonu aynı *sql.DB'yi alır — Go'nun sql.DB'si
// thread-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(conn),
		Post:         repository.NewSQLitePostRepo(conn),
		Comment:      repository.NewSQLiteCommentRepo(conn),
		RefreshToken: repository.NewSQLiteRefreshTokenRepo(conn),
		ResetToken:   repository.NewSQLiteResetTokenRepo(conn),
	}
}
