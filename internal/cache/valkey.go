package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const productionsKey = "catalog:productions"

type Config struct {
	Addr     string
	Password string
	TTL      time.Duration
}

// ValkeyClient caches the rendered productions listing so the hot catalog
// endpoint does not rebuild it on every request.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &ValkeyClient{client: rdb, ttl: ttl}, nil
}

// GetProductionsRaw returns the cached productions payload, or (nil, nil)
// on a cache miss.
func (v *ValkeyClient) GetProductionsRaw(ctx context.Context) ([]byte, error) {
	payload, err := v.client.Get(ctx, productionsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return payload, nil
}

func (v *ValkeyClient) SetProductions(ctx context.Context, payload []byte) error {
	return v.client.Set(ctx, productionsKey, payload, v.ttl).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
