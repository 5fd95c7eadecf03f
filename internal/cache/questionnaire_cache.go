package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"credit-engine/internal/model"
)

// QuestionnaireCache caches published questionnaire versions. Published
// versions are immutable, so a long TTL is safe; draft versions are never
// cached.
type QuestionnaireCache interface {
	Set(ctx context.Context, q *model.Questionnaire) error
	Get(ctx context.Context, id string) (*model.Questionnaire, error)
	Invalidate(ctx context.Context, id string) error
}

type questionnaireCache struct {
	client *redis.Client
}

func NewQuestionnaireCache(client *redis.Client) QuestionnaireCache {
	return &questionnaireCache{client: client}
}

func (c *questionnaireCache) Set(ctx context.Context, q *model.Questionnaire) error {
	if q.Status != model.QuestionnairePublished {
		return nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "questionnaire:"+q.ID, data, 12*time.Hour).Err()
}

func (c *questionnaireCache) Get(ctx context.Context, id string) (*model.Questionnaire, error) {
	data, err := c.client.Get(ctx, "questionnaire:"+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var q model.Questionnaire
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (c *questionnaireCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, "questionnaire:"+id).Err()
}
