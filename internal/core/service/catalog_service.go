package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// CatalogService implements product browsing and admin product management.
type CatalogService struct {
	products ports.ProductRepository
	log      zerolog.Logger
}

func NewCatalogService(products ports.ProductRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, log: log}
}

func (s *CatalogService) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, domain.Invalid("unknown category: " + string(filter.Category))
	}
	if filter.Limit < 0 {
		return nil, domain.Invalid("limit must be a positive number")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.products.List(ctx, filter)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Category == "" || in.Price == nil {
		return nil, domain.Invalid("Missing required fields")
	}

	p := &domain.Product{
		Name:        name,
		Category:    domain.Category(in.Category),
		Price:       *in.Price,
		Description: in.Description,
		Image:       in.Image,
		CreatedAt:   time.Now().UTC(),
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if p.Image == "" {
		p.Image = domain.DefaultProductImage
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

// Update applies patch to the stored product; fields left nil keep their
// value. The merged result is validated, but only the patched fields are
// written so stock moved by a checkout in the meantime is preserved.
func (s *CatalogService) Update(ctx context.Context, id string, patch ports.ProductPatch) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
		p.Name = name
	}
	if patch.Category != nil {
		p.Category = domain.Category(*patch.Category)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", updated.ID).Msg("product updated")
	return updated, nil
}

// Delete removes the product even when orders still reference it.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
