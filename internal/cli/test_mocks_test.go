package cli

import (
	"context"
	"fmt"

	"github.com/tavolohq/tavolo/internal/domain"
	"github.com/tavolohq/tavolo/internal/gateway/business"
	"github.com/tavolohq/tavolo/internal/storage"
)

type testRestaurantResolver struct {
	restaurant domain.Restaurant
	err        error
}

func (r *testRestaurantResolver) Find(context.Context, string) (domain.Restaurant, error) {
	if r.err != nil {
		return domain.Restaurant{}, r.err
	}
	return r.restaurant, nil
}

type testConfigManager struct {
	cfg     domain.Config
	loadErr error
	saved   *domain.Config
}

func (m *testConfigManager) Path() string {
	return "/tmp/tavolo-test-config.json"
}

func (m *testConfigManager) Load(context.Context) (domain.Config, error) {
	if m.loadErr != nil {
		return domain.Config{}, m.loadErr
	}
	return m.cfg, nil
}

func (m *testConfigManager) Save(_ context.Context, cfg domain.Config) error {
	m.saved = &cfg
	return nil
}

type testStore struct {
	hours    domain.WeeklySchedule
	closings []domain.ClosingRecord
	messages []domain.SpecialMessage
	loadErr  error
	saveErr  error
}

func (s *testStore) LoadHours(context.Context) (domain.WeeklySchedule, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.hours == nil {
		return nil, storage.ErrNotFound
	}
	return s.hours, nil
}

func (s *testStore) SaveHours(_ context.Context, weekly domain.WeeklySchedule) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.hours = weekly
	return nil
}

func (s *testStore) LoadClosings(context.Context) ([]domain.ClosingRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.closings == nil {
		return nil, storage.ErrNotFound
	}
	return s.closings, nil
}

func (s *testStore) SaveClosings(_ context.Context, closings []domain.ClosingRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.closings = closings
	return nil
}

func (s *testStore) LoadMessages(context.Context) ([]domain.SpecialMessage, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.messages == nil {
		return nil, storage.ErrNotFound
	}
	return s.messages, nil
}

func (s *testStore) SaveMessages(_ context.Context, messages []domain.SpecialMessage) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.messages = messages
	return nil
}

type testStoreProvider struct {
	store *testStore
	err   error
}

func (p *testStoreProvider) For(domain.Restaurant) (storage.Store, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.store, nil
}

type testPublisher struct {
	result business.PublishResult
	err    error

	gotLocation string
	gotPayload  business.PublishPayload
	gotAuth     business.AuthContext
	calls       int
}

func (p *testPublisher) PublishHours(
	_ context.Context,
	locationID string,
	payload business.PublishPayload,
	auth business.AuthContext,
) (business.PublishResult, error) {
	p.calls++
	p.gotLocation = locationID
	p.gotPayload = payload
	p.gotAuth = auth
	if p.err != nil {
		return business.PublishResult{}, p.err
	}
	return p.result, nil
}

var errTestBoom = fmt.Errorf("boom")
