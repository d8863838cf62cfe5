package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on top of Redis. Documents are stored as
// JSON strings under "<prefix><collection>:<key>"; List scans the
// collection's keyspace and fetches documents in batches with MGET.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis-backed store. keyPrefix namespaces all
// keys and may be empty.
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (s *RedisStore) docKey(collection, key string) string {
	return fmt.Sprintf("%s%s:%s", s.keyPrefix, collection, key)
}

func (s *RedisStore) Get(ctx context.Context, collection, key string, dest any) error {
	raw, err := s.client.Get(ctx, s.docKey(collection, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("get %s/%s: %w", collection, key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("get %s/%s: unmarshal: %w", collection, key, err)
	}
	return nil
}

func (s *RedisStore) Set(ctx context.Context, collection, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("set %s/%s: marshal: %w", collection, key, err)
	}
	if err := s.client.Set(ctx, s.docKey(collection, key), raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, key string) error {
	if err := s.client.Del(ctx, s.docKey(collection, key)).Err(); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	pattern := fmt.Sprintf("%s%s:*", s.keyPrefix, collection)

	var docs []json.RawMessage
	iter := s.client.Scan(ctx, 0, pattern, 200).Iterator()
	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		values, err := s.client.MGet(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("list %s: mget: %w", collection, err)
		}
		for _, v := range values {
			str, ok := v.(string)
			if !ok {
				// Key expired between SCAN and MGET.
				continue
			}
			docs = append(docs, json.RawMessage(str))
		}
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 200 {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list %s: scan: %w", collection, err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return docs, nil
}
