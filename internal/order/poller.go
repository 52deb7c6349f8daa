package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Repository is the part of the business API the order board talks to.
type Repository interface {
	ListOrders(ctx context.Context) ([]Cart, error)
	UpdateItemStatus(ctx context.Context, to Status, update StatusUpdate) error
}

// Poller keeps a Cache in sync with the API on a fixed interval.
type Poller struct {
	repo     Repository
	cache    *Cache
	interval time.Duration

	// fetchMu serializes fetches so a slow poll cannot overwrite the
	// result of a later one.
	fetchMu sync.Mutex
}

func NewPoller(repo Repository, cache *Cache, interval time.Duration) *Poller {
	return &Poller{
		repo:     repo,
		cache:    cache,
		interval: interval,
	}
}

// Run fetches immediately and then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", p.interval).Msg("order poller started")

	_ = p.Fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("order poller stopped")
			return nil
		case <-ticker.C:
			_ = p.Fetch(ctx)
		}
	}
}

// Fetch pulls every order once and applies it to the cache. A failed fetch
// leaves the cache as it was.
func (p *Poller) Fetch(ctx context.Context) error {
	p.fetchMu.Lock()
	defer p.fetchMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	carts, err := p.repo.ListOrders(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching orders")
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	change := p.cache.Apply(carts)
	if !change.Empty() {
		log.Debug().
			Strs("added", change.Added).
			Strs("updated", change.Updated).
			Strs("removed", change.Removed).
			Msg("order cache changed")
	}

	return nil
}
