// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog rebuilds the product list from the storage folder of each
// category. Folder listings are not always reliable, so each category walks
// an ordered chain of tiers (listing, known file names, placeholders) until
// one yields images.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/storage"
)

// DefaultConcurrency bounds how many categories resolve at once.
const DefaultConcurrency = 16

// CategorySource loads the category list. The error is non-nil only when
// the metadata could not be read for a reason other than absence.
type CategorySource interface {
	LoadCategories(ctx context.Context) ([]models.Category, error)
}

// Config tunes the resolver.
type Config struct {
	VerifyListed    bool   // probe listed objects before showing them
	Concurrency     int    // categories resolved in parallel
	PlaceholderBase string // stock image host
}

// Resolver assembles the catalog.
type Resolver struct {
	categories  CategorySource
	cache       cache.Catalog
	metrics     *metrics.Metrics
	tiers       []Tier
	concurrency int
}

// NewResolver wires the standard tier chain over objects.
func NewResolver(categories CategorySource, objects storage.Store, prober Prober, c cache.Catalog, m *metrics.Metrics, cfg Config) *Resolver {
	tiers := []Tier{
		ListingTier(objects, prober, cfg.VerifyListed),
		KnownFilesTier(objects, prober),
		PlaceholderTier(cfg.PlaceholderBase),
	}
	return NewResolverWithTiers(categories, tiers, c, m, cfg.Concurrency)
}

// NewResolverWithTiers builds a resolver over a custom tier chain. The first
// tier is treated as the primary storage read for outage detection.
func NewResolverWithTiers(categories CategorySource, tiers []Tier, c cache.Catalog, m *metrics.Metrics, concurrency int) *Resolver {
	if c == nil {
		c = cache.None{}
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{categories: categories, cache: c, metrics: m, tiers: tiers, concurrency: concurrency}
}

// categoryResult is the outcome of resolving one category.
type categoryResult struct {
	products   []models.Product
	primaryErr error
}

// Catalog returns the assembled catalog, from the cache when fresh. A single
// category failing never fails the whole call. An UpstreamStorage error is
// returned only when the metadata and every category listing failed.
func (r *Resolver) Catalog(ctx context.Context) (*models.Catalog, error) {
	gen := r.cache.Generation(ctx)
	if cached, ok := r.cache.Get(ctx); ok {
		r.metrics.CacheLookup(true)
		return cached, nil
	}
	r.metrics.CacheLookup(false)

	categories, metaErr := r.categories.LoadCategories(ctx)

	results := make([]categoryResult, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, c := range categories {
		g.Go(func() error {
			results[i] = r.resolve(gctx, c)
			return nil
		})
	}
	g.Wait()

	if metaErr != nil && len(categories) > 0 && allFailed(results) {
		slog.Error("catalog storage unreachable", "metadata_error", metaErr, "listing_error", results[0].primaryErr)
		return nil, apperr.Upstream("Failed to fetch products", fmt.Errorf("metadata: %w", metaErr))
	}

	out := &models.Catalog{Products: []models.Product{}, Categories: categories}
	for _, res := range results {
		out.Products = append(out.Products, res.products...)
	}
	if !r.cache.SetIfGeneration(ctx, gen, out) {
		slog.Debug("catalog changed while resolving, result not cached")
	}
	return out, nil
}

// resolve walks the tier chain for one category.
func (r *Resolver) resolve(ctx context.Context, c models.Category) categoryResult {
	var res categoryResult
	for i, tier := range r.tiers {
		sources, err := tier.Resolve(ctx, c)
		if err != nil {
			slog.Warn("catalog tier failed", "category", c.ID, "tier", tier.Name, "error", err)
			r.metrics.TierResult(tier.Name, "error")
			if i == 0 {
				res.primaryErr = err
			}
			continue
		}
		if len(sources) == 0 {
			r.metrics.TierResult(tier.Name, "empty")
			continue
		}
		r.metrics.TierResult(tier.Name, "hit")
		res.products = toProducts(c, sources)
		return res
	}
	res.products = []models.Product{}
	return res
}

func toProducts(c models.Category, sources []Source) []models.Product {
	products := make([]models.Product, len(sources))
	for i, src := range sources {
		products[i] = models.Product{
			ID:            fmt.Sprintf("%s-%d-%s", c.ID, i, src.ID),
			Name:          fmt.Sprintf("%s #%d", c.Label, i+1),
			Category:      c.ID,
			CategoryLabel: c.Label,
			Image:         src.URL,
		}
	}
	return products
}

func allFailed(results []categoryResult) bool {
	for _, res := range results {
		if res.primaryErr == nil {
			return false
		}
	}
	return true
}
