package services

import (
	"context"

	"github.com/emirpasa/kalem/repository"
)

// Stats, platformun genel sayaçları.
type Stats struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
}

// StatsService, platform istatistiklerini toplar.
type StatsService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

// NewStatsService, constructor.
func NewStatsService(userRepo repository.UserRepository, postRepo repository.PostRepository, commentRepo repository.CommentRepository) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// GetStats, kullanıcı/yazı/yorum sayılarını döner.
func (s *StatsService) GetStats(ctx context.Context) (*Stats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{Users: users, Posts: posts, Comments: comments}, nil
}
