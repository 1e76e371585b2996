package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yashrajoria/sneakershop/models"
)

// RedisSessionCartStore keeps each anonymous cart as a JSON document. A positive
// ttl slides on every Load and Save; zero stores without expiry.
type RedisSessionCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionCartStore(client *redis.Client, ttl time.Duration) *RedisSessionCartStore {
	return &RedisSessionCartStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisSessionCartStore) getKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (r *RedisSessionCartStore) Load(ctx context.Context, sessionID string) ([]models.SessionCartItem, error) {
	var cmd *redis.StringCmd
	if r.ttl > 0 {
		cmd = r.client.GetEx(ctx, r.getKey(sessionID), r.ttl)
	} else {
		cmd = r.client.Get(ctx, r.getKey(sessionID))
	}
	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.SessionCartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session cart: %w", err)
	}

	items := []models.SessionCartItem{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode session cart: %w", err)
	}
	return items, nil
}

func (r *RedisSessionCartStore) Save(ctx context.Context, sessionID string, items []models.SessionCartItem) error {
	if items == nil {
		items = []models.SessionCartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode session cart: %w", err)
	}
	if err := r.client.Set(ctx, r.getKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session cart: %w", err)
	}
	return nil
}

func (r *RedisSessionCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.getKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del session cart: %w", err)
	}
	return nil
}
