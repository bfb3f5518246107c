// Package profile resolves which configured restaurant a command acts
// on, by explicit name or the configured default.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tavolohq/tavolo/internal/config"
	"github.com/tavolohq/tavolo/internal/domain"
)

var (
	// ErrDefaultRestaurantNotFound indicates config has no default restaurant.
	ErrDefaultRestaurantNotFound = errors.New("no default restaurant found")
	// ErrRestaurantNotFound indicates requested restaurant does not exist.
	ErrRestaurantNotFound = errors.New("restaurant not found")
)

// Loader provides config payloads.
type Loader interface {
	Load(ctx context.Context) (domain.Config, error)
}

// Resolver resolves restaurant names.
type Resolver struct {
	loader Loader
}

// NewResolver creates a restaurant resolver.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Find resolves explicit restaurant names or the default entry.
func (r *Resolver) Find(ctx context.Context, name string) (domain.Restaurant, error) {
	cfg, err := r.loader.Load(ctx)
	if err != nil {
		return domain.Restaurant{}, err
	}
	if strings.TrimSpace(name) == "" {
		for _, restaurant := range cfg.Restaurants {
			if restaurant.IsDefault {
				return restaurant, nil
			}
		}
		if len(cfg.Restaurants) == 1 {
			return cfg.Restaurants[0], nil
		}
		return domain.Restaurant{}, ErrDefaultRestaurantNotFound
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, restaurant := range cfg.Restaurants {
		if strings.ToLower(restaurant.Name) == want {
			return restaurant, nil
		}
	}
	available := make([]string, 0, len(cfg.Restaurants))
	for _, restaurant := range cfg.Restaurants {
		available = append(available, restaurant.Name)
	}
	return domain.Restaurant{}, fmt.Errorf("%w: %s (available: %s)", ErrRestaurantNotFound, want, strings.Join(available, ", "))
}

// NewFileResolver constructs a resolver from the local config file.
func NewFileResolver() (*Resolver, error) {
	store, err := config.NewStore()
	if err != nil {
		return nil, err
	}
	return NewResolver(store), nil
}
