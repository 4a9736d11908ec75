// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"storefront/internal/models"
	"storefront/internal/storage"
)

// Tier names, also used as metric labels.
const (
	TierListing     = "listing"
	TierKnownFiles  = "known-files"
	TierPlaceholder = "placeholder"
)

const (
	listPageSize     = 100
	knownFileCount   = 8
	probeConcurrency = 8

	defaultPlaceholderCount = 4

	// DefaultPlaceholderBase serves the stock placeholder images.
	DefaultPlaceholderBase = "https://placehold.co"
)

// placeholderCounts is the number of stock images shown per category when
// nothing real can be found.
var placeholderCounts = map[string]int{
	"army":            8,
	"police":          6,
	"bar-mat":         5,
	"coasters":        6,
	"flash-memory":    4,
	"fridge-magnet":   5,
	"label":           6,
	"lighter":         4,
	"mobile-holder":   4,
	"pen-accessories": 5,
}

// Source is one image a tier found for a category.
type Source struct {
	ID  string // object id, or the object name when storage assigns none
	URL string // fully qualified public URL
}

// Tier is one resolution strategy. Tiers are tried in order until one
// returns a non-empty result.
type Tier struct {
	Name    string
	Resolve func(ctx context.Context, c models.Category) ([]Source, error)
}

// ListingTier lists the category folder and keeps product objects. When
// verify is set each listed object is probed and unreachable ones dropped.
func ListingTier(objects storage.Store, prober Prober, verify bool) Tier {
	return Tier{
		Name: TierListing,
		Resolve: func(ctx context.Context, c models.Category) ([]Source, error) {
			listed, err := objects.List(ctx, c.ID+"/", listPageSize)
			if err != nil {
				return nil, fmt.Errorf("list %s: %w", c.ID, err)
			}
			var sources []Source
			for _, obj := range listed {
				if !isProductObject(obj) {
					continue
				}
				id := obj.ID
				if id == "" {
					id = obj.Name
				}
				sources = append(sources, Source{ID: id, URL: objects.PublicURL(obj.Key)})
			}
			if verify {
				sources = probeAll(ctx, prober, sources)
			}
			return sources, nil
		},
	}
}

// isProductObject drops folders, directory markers, dot files and JSON
// documents from a listing.
func isProductObject(obj storage.Object) bool {
	switch {
	case obj.IsDir, obj.ContentType == storage.DirectoryContentType:
		return false
	case obj.Name == "", strings.HasPrefix(obj.Name, "."):
		return false
	case strings.Contains(obj.Name, ".json"):
		return false
	}
	return true
}

// KnownFilesTier probes the conventional 1.jpeg..8.jpeg names in the
// category folder.
func KnownFilesTier(objects storage.Store, prober Prober) Tier {
	return Tier{
		Name: TierKnownFiles,
		Resolve: func(ctx context.Context, c models.Category) ([]Source, error) {
			candidates := make([]Source, knownFileCount)
			for i := range candidates {
				name := strconv.Itoa(i+1) + ".jpeg"
				candidates[i] = Source{ID: name, URL: objects.PublicURL(c.ID + "/" + name)}
			}
			return probeAll(ctx, prober, candidates), nil
		},
	}
}

// PlaceholderTier returns the category's stock images. It never fails and
// never probes.
func PlaceholderTier(base string) Tier {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultPlaceholderBase
	}
	return Tier{
		Name: TierPlaceholder,
		Resolve: func(_ context.Context, c models.Category) ([]Source, error) {
			n, ok := placeholderCounts[c.ID]
			if !ok {
				n = defaultPlaceholderCount
			}
			label := url.QueryEscape(c.Label)
			sources := make([]Source, n)
			for i := range sources {
				sources[i] = Source{
					ID:  "placeholder-" + strconv.Itoa(i+1),
					URL: fmt.Sprintf("%s/800x800?text=%s+%d", base, label, i+1),
				}
			}
			return sources, nil
		},
	}
}

// probeAll probes candidates concurrently and returns the reachable ones in
// their original order.
func probeAll(ctx context.Context, prober Prober, candidates []Source) []Source {
	found := make([]bool, len(candidates))
	var g errgroup.Group
	g.SetLimit(probeConcurrency)
	for i, src := range candidates {
		g.Go(func() error {
			found[i] = prober.Exists(ctx, src.URL)
			return nil
		})
	}
	g.Wait()

	var kept []Source
	for i, ok := range found {
		if ok {
			kept = append(kept, candidates[i])
		}
	}
	return kept
}
