package service

import (
	"context"

	"app/internal/apperr"
	"app/internal/repository"
)

// Stats is the admin dashboard summary.
type Stats struct {
	Users             int `json:"users"`
	ActiveSubscribers int `json:"activeSubscribers"`
}

// StatsService reports aggregate platform numbers to admins.
type StatsService interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsService struct {
	userRepo repository.UserRepository
}

func NewStatsService(userRepo repository.UserRepository) StatsService {
	return &statsService{userRepo: userRepo}
}

func (s *statsService) Overview(ctx context.Context) (*Stats, error) {
	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to count users", err)
	}
	subscribers, err := s.userRepo.CountActiveSubscribers(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to count subscribers", err)
	}
	return &Stats{Users: users, ActiveSubscribers: subscribers}, nil
}
