package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSuggestTTL bounds how long a cached suggestion list is served.
const DefaultSuggestTTL = time.Hour

// GetSuggestions returns the cached list for query. ok is false on a miss.
func (s *Store) GetSuggestions(ctx context.Context, query string) ([]string, bool, error) {
	data, err := s.client.Get(ctx, SuggestKey(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get cached suggestions: %w", err)
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached suggestions: %w", err)
	}
	return out, true, nil
}

// PutSuggestions caches list for query. A non-positive ttl uses DefaultSuggestTTL.
func (s *Store) PutSuggestions(ctx context.Context, query string, list []string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultSuggestTTL
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}
	if err := s.client.Set(ctx, SuggestKey(query), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache suggestions: %w", err)
	}
	return nil
}

// FlushSuggestions drops every cached suggestion list.
func (s *Store) FlushSuggestions(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixSuggest+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush suggestions: %w", err)
	}
	return nil
}
