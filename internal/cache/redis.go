package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airtrips/config"
	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client    *redis.Client
	searchTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, searchTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}), searchTTL)
}

func NewRedisCacheWithClient(client *redis.Client, searchTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, searchTTL: searchTTL}
}

// GetItineraries returns nil, nil on a cache miss.
func (c *RedisCache) GetItineraries(ctx context.Context, date domain.Date, originCity, destCity string) ([]domain.Itinerary, error) {
	data, err := c.client.Get(ctx, searchKey(date, originCity, destCity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var itineraries []domain.Itinerary
	if err := json.Unmarshal(data, &itineraries); err != nil {
		return nil, err
	}
	return itineraries, nil
}

func (c *RedisCache) SetItineraries(ctx context.Context, date domain.Date, originCity, destCity string, itineraries []domain.Itinerary) error {
	payload, err := json.Marshal(itineraries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, searchKey(date, originCity, destCity), payload, c.searchTTL).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// searchKey uses the cities exactly as the catalog matches them.
func searchKey(date domain.Date, originCity, destCity string) string {
	return fmt.Sprintf("cache:search:%s:%q:%q", date, originCity, destCity)
}
