// Package catalog reads the product catalog from the backend. It is a
// read-only surface: categories and per-category product lists, with a small
// LRU cache in front of the product endpoint so browsing back and forth
// between categories does not refetch every time.
package catalog

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/logging"
)

// AllCategories is the category id meaning "no category filter".
const AllCategories int64 = 0

// API is the slice of the backend client the catalog service uses.
type API interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Products(ctx context.Context, categoryID int64) ([]models.Product, error)
}

type Service struct {
	api   API
	cache *lru.Cache[int64, []models.Product]
	log   logging.Logger
}

// NewService builds a catalog service caching up to cacheSize category
// product lists.
func NewService(api API, cacheSize int, log logging.Logger) (*Service, error) {
	cache, err := lru.New[int64, []models.Product](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}
	return &Service{api: api, cache: cache, log: log}, nil
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	return s.api.Categories(ctx)
}

// Products lists products in a category (AllCategories for everything),
// serving repeat requests from the cache.
func (s *Service) Products(ctx context.Context, categoryID int64) ([]models.Product, error) {
	if cached, ok := s.cache.Get(categoryID); ok {
		return cached, nil
	}
	products, err := s.api.Products(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	s.cache.Add(categoryID, products)
	return products, nil
}

// Overview fetches the category list and the full product list concurrently.
func (s *Service) Overview(ctx context.Context) ([]models.Category, []models.Product, error) {
	var (
		categories []models.Category
		products   []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.api.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.Products(gctx, AllCategories)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return categories, products, nil
}

// Invalidate drops all cached product lists.
func (s *Service) Invalidate() {
	s.cache.Purge()
}
