package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Fetcher forces an immediate refresh of the order cache.
type Fetcher interface {
	Fetch(ctx context.Context) error
}

type Service interface {
	Board(query string) Board
	Pending() []Cart
	Advance(ctx context.Context, key string, from Status) error
}

type service struct {
	repo    Repository
	cache   *Cache
	fetcher Fetcher
}

func NewService(repo Repository, cache *Cache, fetcher Fetcher) Service {
	return &service{
		repo:    repo,
		cache:   cache,
		fetcher: fetcher,
	}
}

func (s *service) Board(query string) Board {
	board := BuildBoard(s.cache.Snapshot(), query)
	board.Version = s.cache.Version()
	board.RefreshedAt = s.cache.RefreshedAt()
	return board
}

func (s *service) Pending() []Cart {
	return Pending(s.cache.Snapshot())
}

// Advance moves every item of the cart that is currently at from one step
// forward with a single batched request, then re-polls. Nothing local is
// touched before the API confirms.
func (s *service) Advance(ctx context.Context, key string, from Status) error {
	cart, err := s.cache.Resolve(key)
	if err != nil {
		return err
	}

	to, update, err := PlanAdvance(cart, from)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateItemStatus(ctx, to, update); err != nil {
		log.Error().
			Err(err).
			Str("order_key", key).
			Str("user_id", update.UserID).
			Str("to", to.String()).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status to %s: %w", to, err)
	}

	log.Info().
		Str("order_key", key).
		Str("user_id", update.UserID).
		Strs("items", update.Items).
		Str("to", to.String()).
		Msg("order items advanced")

	if err := s.fetcher.Fetch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("re-poll after status update failed")
	}

	return nil
}
