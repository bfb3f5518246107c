// Package storage persists the admin-edited content: weekly hours,
// closing records, and special messages. Backends share one interface
// so the hosted key-value store and the flat-file fallback compose
// into a priority chain.
package storage

import (
	"context"
	"errors"

	"github.com/tavolohq/tavolo/internal/domain"
)

// ErrNotFound is returned when a dataset has never been written to the
// backend.
var ErrNotFound = errors.New("dataset not found")

// Dataset keys shared by all backends.
const (
	datasetHours    = "hours"
	datasetClosings = "closings"
	datasetMessages = "messages"
)

// Store reads and writes the three admin-edited datasets.
type Store interface {
	LoadHours(ctx context.Context) (domain.WeeklySchedule, error)
	SaveHours(ctx context.Context, weekly domain.WeeklySchedule) error
	LoadClosings(ctx context.Context) ([]domain.ClosingRecord, error)
	SaveClosings(ctx context.Context, closings []domain.ClosingRecord) error
	LoadMessages(ctx context.Context) ([]domain.SpecialMessage, error)
	SaveMessages(ctx context.Context, messages []domain.SpecialMessage) error
}
