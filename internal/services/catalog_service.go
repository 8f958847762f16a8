package services

import (
	"context"

	"perfumeria/internal/domain"
	"perfumeria/internal/metrics"
	"perfumeria/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// List returns the catalog in listing order.
func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	ps, err := s.Prods.List(ctx)
	if err != nil {
		return nil, err
	}
	metrics.ObserveCatalog(ps)
	return domain.SortCatalog(ps), nil
}

// Inventory is the admin view: same rows, insertion order.
func (s *CatalogService) Inventory(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.List(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}
