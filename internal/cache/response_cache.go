package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"credit-engine/internal/model"
)

// ResponseCache keeps the in-flight ResponseData for active screening
// sessions hot, so each answer submission does not round-trip to Mongo.
type ResponseCache interface {
	Set(ctx context.Context, resp *model.ResponseData) error
	Get(ctx context.Context, screeningID string) (*model.ResponseData, error)
	Delete(ctx context.Context, screeningID string) error
}

type responseCache struct {
	client *redis.Client
}

func NewResponseCache(client *redis.Client) ResponseCache {
	return &responseCache{client: client}
}

func (c *responseCache) Set(ctx context.Context, resp *model.ResponseData) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "response:"+resp.ScreeningID, data, 30*time.Minute).Err()
}

func (c *responseCache) Get(ctx context.Context, screeningID string) (*model.ResponseData, error) {
	data, err := c.client.Get(ctx, "response:"+screeningID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp model.ResponseData
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *responseCache) Delete(ctx context.Context, screeningID string) error {
	return c.client.Del(ctx, "response:"+screeningID).Err()
}
