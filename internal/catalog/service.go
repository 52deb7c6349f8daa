package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("product not found")

// Repository is the part of the business API the catalog talks to.
type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, form ProductForm) (*Product, error)
	UpdateProduct(ctx context.Context, id string, form ProductForm) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type Service interface {
	ListProducts(ctx context.Context, query string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	Reload(ctx context.Context) error
	CreateProduct(ctx context.Context, form ProductForm) (*Product, error)
	UpdateProduct(ctx context.Context, id string, form ProductForm) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// service keeps a local copy of the catalog. The copy only changes after
// the API has confirmed a mutation.
type service struct {
	repo      Repository
	validator *Validator

	mu       sync.RWMutex
	products []Product
	loaded   bool
}

func NewService(repo Repository) Service {
	return &service{
		repo:      repo,
		validator: NewValidator(),
	}
}

func (s *service) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded {
		return nil
	}
	return s.Reload(ctx)
}

func (s *service) Reload(ctx context.Context) error {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch products")
		return fmt.Errorf("failed to fetch products: %w", err)
	}

	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	log.Debug().Int("count", len(products)).Msg("catalog loaded")
	return nil
}

func (s *service) ListProducts(ctx context.Context, query string) ([]Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.products, query), nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (s *service) CreateProduct(ctx context.Context, form ProductForm) (*Product, error) {
	if err := s.validator.ValidateCreate(form); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateProduct(ctx, form)
	if err != nil {
		log.Error().Err(err).Str("product_name", form.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.mu.Lock()
	s.products = append(s.products, *created)
	s.mu.Unlock()

	log.Info().Str("product_id", created.ID).Msg("product created")
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, form ProductForm) (*Product, error) {
	if err := s.validator.ValidateUpdate(form); err != nil {
		return nil, err
	}

	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, id, form)
	if err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product by id '%s': %w", id, err)
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == updated.ID {
			s.products[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	log.Info().Str("product_id", updated.ID).Msg("product updated")
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product by id '%s': %w", id, err)
	}

	s.mu.Lock()
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	s.mu.Unlock()

	log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// Filter keeps products whose name contains query, ignoring case.
func Filter(products []Product, query string) []Product {
	result := make([]Product, 0, len(products))
	needle := strings.ToLower(query)
	for _, p := range products {
		if needle == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			result = append(result, p)
		}
	}
	return result
}
