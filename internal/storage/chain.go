package storage

import (
	"context"
	"errors"

	"github.com/tavolohq/tavolo/internal/domain"
)

// Chain composes stores by priority. Reads try each store in order and
// fall through on ErrNotFound or a backend failure, so an unreachable
// key-value store degrades to the file fallback instead of erroring.
// Writes go to every store (keeping the fallback warm); the first
// write error is reported after all stores were attempted.
type Chain struct {
	stores []Store
}

// NewChain creates a priority chain over stores.
func NewChain(stores ...Store) *Chain {
	return &Chain{stores: stores}
}

func (c *Chain) load(ctx context.Context, read func(ctx context.Context, s Store) error) error {
	lastErr := error(ErrNotFound)
	for _, s := range c.stores {
		readErr := read(ctx, s)
		if readErr == nil {
			return nil
		}
		if !errors.Is(readErr, ErrNotFound) {
			lastErr = readErr
		}
	}
	return lastErr
}

func (c *Chain) save(ctx context.Context, write func(ctx context.Context, s Store) error) error {
	var firstErr error
	for _, s := range c.stores {
		if err := write(ctx, s); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LoadHours reads the weekly schedule from the first store holding it.
func (c *Chain) LoadHours(ctx context.Context) (domain.WeeklySchedule, error) {
	var weekly domain.WeeklySchedule
	err := c.load(ctx, func(ctx context.Context, s Store) error {
		loaded, err := s.LoadHours(ctx)
		if err != nil {
			return err
		}
		weekly = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return weekly, nil
}

// SaveHours writes the weekly schedule to every store.
func (c *Chain) SaveHours(ctx context.Context, weekly domain.WeeklySchedule) error {
	return c.save(ctx, func(ctx context.Context, s Store) error {
		return s.SaveHours(ctx, weekly)
	})
}

// LoadClosings reads the closing records from the first store holding them.
func (c *Chain) LoadClosings(ctx context.Context) ([]domain.ClosingRecord, error) {
	var closings []domain.ClosingRecord
	err := c.load(ctx, func(ctx context.Context, s Store) error {
		loaded, err := s.LoadClosings(ctx)
		if err != nil {
			return err
		}
		closings = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closings, nil
}

// SaveClosings writes the closing records to every store.
func (c *Chain) SaveClosings(ctx context.Context, closings []domain.ClosingRecord) error {
	return c.save(ctx, func(ctx context.Context, s Store) error {
		return s.SaveClosings(ctx, closings)
	})
}

// LoadMessages reads the special messages from the first store holding them.
func (c *Chain) LoadMessages(ctx context.Context) ([]domain.SpecialMessage, error) {
	var messages []domain.SpecialMessage
	err := c.load(ctx, func(ctx context.Context, s Store) error {
		loaded, err := s.LoadMessages(ctx)
		if err != nil {
			return err
		}
		messages = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// SaveMessages writes the special messages to every store.
func (c *Chain) SaveMessages(ctx context.Context, messages []domain.SpecialMessage) error {
	return c.save(ctx, func(ctx context.Context, s Store) error {
		return s.SaveMessages(ctx, messages)
	})
}
