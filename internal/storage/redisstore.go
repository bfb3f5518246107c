package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis"

	"github.com/tavolohq/tavolo/internal/domain"
)

const redisKeyPrefix = "tavolo:"

// RedisStore keeps each dataset as one JSON value in the hosted
// key-value store. Values never expire; the dashboard owns their
// lifecycle. The go-redis v6 client carries no context, so the ctx
// parameters of the Store interface are not forwarded.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects a redis-backed store.
func NewRedisStore(cfg domain.RedisSettings) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	return &RedisStore{client: client}
}

// Ping verifies connectivity.
func (s *RedisStore) Ping() error {
	if _, err := s.client.Ping().Result(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load(dataset string, out any) error {
	payload, err := s.client.Get(redisKeyPrefix + dataset).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", dataset, err)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("parse %s: %w", dataset, err)
	}
	return nil
}

func (s *RedisStore) save(dataset string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", dataset, err)
	}
	if err := s.client.Set(redisKeyPrefix+dataset, payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", dataset, err)
	}
	return nil
}

// LoadHours reads the weekly schedule.
func (s *RedisStore) LoadHours(_ context.Context) (domain.WeeklySchedule, error) {
	weekly := domain.WeeklySchedule{}
	if err := s.load(datasetHours, &weekly); err != nil {
		return nil, err
	}
	return weekly, nil
}

// SaveHours writes the weekly schedule.
func (s *RedisStore) SaveHours(_ context.Context, weekly domain.WeeklySchedule) error {
	return s.save(datasetHours, weekly)
}

// LoadClosings reads the closing records.
func (s *RedisStore) LoadClosings(_ context.Context) ([]domain.ClosingRecord, error) {
	closings := []domain.ClosingRecord{}
	if err := s.load(datasetClosings, &closings); err != nil {
		return nil, err
	}
	return closings, nil
}

// SaveClosings writes the closing records.
func (s *RedisStore) SaveClosings(_ context.Context, closings []domain.ClosingRecord) error {
	return s.save(datasetClosings, closings)
}

// LoadMessages reads the special messages.
func (s *RedisStore) LoadMessages(_ context.Context) ([]domain.SpecialMessage, error) {
	messages := []domain.SpecialMessage{}
	if err := s.load(datasetMessages, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SaveMessages writes the special messages.
func (s *RedisStore) SaveMessages(_ context.Context, messages []domain.SpecialMessage) error {
	return s.save(datasetMessages, messages)
}
