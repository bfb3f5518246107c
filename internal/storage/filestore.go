package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tavolohq/tavolo/internal/domain"
)

// FileStore keeps each dataset as one JSON document in a data
// directory. It is the last link of the fallback chain and the only
// backend a fresh installation needs.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) datasetPath(dataset string) string {
	return filepath.Join(s.dir, dataset+".json")
}

func (s *FileStore) read(dataset string, out any) error {
	payload, err := os.ReadFile(s.datasetPath(dataset))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", dataset, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("parse %s: %w", dataset, err)
	}
	return nil
}

func (s *FileStore) write(dataset string, value any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", dataset, err)
	}
	if err := os.WriteFile(s.datasetPath(dataset), payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dataset, err)
	}
	return nil
}

// LoadHours reads the weekly schedule.
func (s *FileStore) LoadHours(_ context.Context) (domain.WeeklySchedule, error) {
	weekly := domain.WeeklySchedule{}
	if err := s.read(datasetHours, &weekly); err != nil {
		return nil, err
	}
	return weekly, nil
}

// SaveHours writes the weekly schedule.
func (s *FileStore) SaveHours(_ context.Context, weekly domain.WeeklySchedule) error {
	return s.write(datasetHours, weekly)
}

// LoadClosings reads the closing records.
func (s *FileStore) LoadClosings(_ context.Context) ([]domain.ClosingRecord, error) {
	closings := []domain.ClosingRecord{}
	if err := s.read(datasetClosings, &closings); err != nil {
		return nil, err
	}
	return closings, nil
}

// SaveClosings writes the closing records.
func (s *FileStore) SaveClosings(_ context.Context, closings []domain.ClosingRecord) error {
	return s.write(datasetClosings, closings)
}

// LoadMessages reads the special messages.
func (s *FileStore) LoadMessages(_ context.Context) ([]domain.SpecialMessage, error) {
	messages := []domain.SpecialMessage{}
	if err := s.read(datasetMessages, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SaveMessages writes the special messages.
func (s *FileStore) SaveMessages(_ context.Context, messages []domain.SpecialMessage) error {
	return s.write(datasetMessages, messages)
}
