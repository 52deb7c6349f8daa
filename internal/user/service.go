package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// Repository is the read side of the business API the user list needs.
type Repository interface {
	ListUsers(ctx context.Context) ([]User, error)
}

// Service is a read-only user directory: fetched once, filtered locally.
type Service interface {
	ListUsers(ctx context.Context, query string) ([]User, error)
	Reload(ctx context.Context) error
}

type service struct {
	repo Repository

	mu     sync.RWMutex
	users  []User
	loaded bool
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListUsers(ctx context.Context, query string) ([]User, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if !loaded {
		if err := s.Reload(ctx); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.users, query), nil
}

func (s *service) Reload(ctx context.Context) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch users")
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	s.mu.Lock()
	s.users = users
	s.loaded = true
	s.mu.Unlock()

	log.Debug().Int("count", len(users)).Msg("user list loaded")
	return nil
}

// Filter keeps users whose username contains query, ignoring case.
// An empty query keeps everyone.
func Filter(users []User, query string) []User {
	result := make([]User, 0, len(users))
	needle := strings.ToLower(query)
	for _, u := range users {
		if needle == "" || strings.Contains(strings.ToLower(u.Username), needle) {
			result = append(result, u)
		}
	}
	return result
}
