package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ProgressCache handles Redis ZSET operations for the employer dashboard:
// every employer has a board of open screenings ranked by completion
// percentage.
type ProgressCache interface {
	UpdateProgress(ctx context.Context, employerID, screeningID string, percent float64) error
	GetBoard(ctx context.Context, employerID string, limit int) ([]ProgressEntry, error)
	Remove(ctx context.Context, employerID, screeningID string) error
}

// ProgressEntry is one screening on the employer's progress board
type ProgressEntry struct {
	ScreeningID string  `json:"screeningId"`
	Percent     float64 `json:"percent"`
	Rank        int     `json:"rank"`
}

type progressCache struct {
	client *redis.Client
}

func NewProgressCache(client *redis.Client) ProgressCache {
	return &progressCache{client: client}
}

func (c *progressCache) key(employerID string) string {
	return fmt.Sprintf("employer:%s:progress", employerID)
}

func (c *progressCache) UpdateProgress(ctx context.Context, employerID, screeningID string, percent float64) error {
	return c.client.ZAdd(ctx, c.key(employerID), redis.Z{
		Score:  percent,
		Member: screeningID,
	}).Err()
}

func (c *progressCache) GetBoard(ctx context.Context, employerID string, limit int) ([]ProgressEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(employerID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]ProgressEntry, len(results))
	for i, z := range results {
		entries[i] = ProgressEntry{
			ScreeningID: z.Member.(string),
			Percent:     z.Score,
			Rank:        i + 1,
		}
	}
	return entries, nil
}

func (c *progressCache) Remove(ctx context.Context, employerID, screeningID string) error {
	return c.client.ZRem(ctx, c.key(employerID), screeningID).Err()
}
