// Package main — Handler katmanı başlatma.
package main

import (
	"github.com/emirpasa/kalem/handlers"
	"github.com/emirpasa/kalem/ws"
)

// Handlers, tüm HTTP handler instance'larını tutan container struct.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Post    *handlers.PostHandler
	Comment *handlers.CommentHandler
	Stats   *handlers.StatsHandler
	WS      *ws.Handler
}

// initHandlers, service'lerden tüm handler'ları oluşturur.
func initHandlers(svcs *Services, limiters *RateLimiters, hub *ws.Hub) *Handlers {
	return &Handlers{
		Auth:    handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Post:    handlers.NewPostHandler(svcs.Post),
		Comment: handlers.NewCommentHandler(svcs.Comment, limiters.Comment),
		Stats:   handlers.NewStatsHandler(svcs.Stats, hub),
		WS:      ws.NewHandler(hub, svcs.Token),
	}
}
