package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"jiwasa/internal/store"
)

const (
	activePromotionsKey = "promotions:active"
	activeSponsoredKey  = "sponsored:active"
)

// Client is a short-TTL side cache for the two public listings every
// app session hits on launch.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// GetActivePromotions returns the cached listing, or nil on a miss.
func (c *Client) GetActivePromotions(ctx context.Context) ([]store.Promotion, error) {
	data, err := c.rdb.Get(ctx, activePromotionsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("reading promotions cache: %w", err)
	}

	var promotions []store.Promotion
	if err := json.Unmarshal(data, &promotions); err != nil {
		return nil, fmt.Errorf("decoding promotions cache: %w", err)
	}
	return promotions, nil
}

func (c *Client) SetActivePromotions(ctx context.Context, promotions []store.Promotion) error {
	data, err := json.Marshal(promotions)
	if err != nil {
		return fmt.Errorf("encoding promotions cache: %w", err)
	}
	if err := c.rdb.Set(ctx, activePromotionsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing promotions cache: %w", err)
	}
	return nil
}

// GetActiveSponsored returns the cached listing, or nil on a miss.
func (c *Client) GetActiveSponsored(ctx context.Context) ([]store.SponsoredPlacement, error) {
	data, err := c.rdb.Get(ctx, activeSponsoredKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sponsored cache: %w", err)
	}

	var placements []store.SponsoredPlacement
	if err := json.Unmarshal(data, &placements); err != nil {
		return nil, fmt.Errorf("decoding sponsored cache: %w", err)
	}
	return placements, nil
}

func (c *Client) SetActiveSponsored(ctx context.Context, placements []store.SponsoredPlacement) error {
	data, err := json.Marshal(placements)
	if err != nil {
		return fmt.Errorf("encoding sponsored cache: %w", err)
	}
	if err := c.rdb.Set(ctx, activeSponsoredKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("writing sponsored cache: %w", err)
	}
	return nil
}

// InvalidateSponsored drops the cached listing after an admin edit so
// the next read reflects it immediately.
func (c *Client) InvalidateSponsored(ctx context.Context) error {
	return c.rdb.Del(ctx, activeSponsoredKey).Err()
}

// InvalidatePromotions drops the cached listing after a place owner or
// admin changes a promotion.
func (c *Client) InvalidatePromotions(ctx context.Context) error {
	return c.rdb.Del(ctx, activePromotionsKey).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
