package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/muradsh/artmarket/config"
	"github.com/muradsh/artmarket/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	workshopsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, workshopsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		workshopsTTL: workshopsTTL,
	}
}

func (c *RedisCache) GetWorkshops(ctx context.Context) ([]domain.Workshop, error) {
	data, err := c.client.Get(ctx, workshopsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var workshops []domain.Workshop
	if err := json.Unmarshal(data, &workshops); err != nil {
		return nil, err
	}
	return workshops, nil
}

func (c *RedisCache) SetWorkshops(ctx context.Context, workshops []domain.Workshop) error {
	payload, err := json.Marshal(workshops)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, workshopsKey(), payload, c.workshopsTTL).Err()
}

func (c *RedisCache) InvalidateWorkshops(ctx context.Context) error {
	return c.client.Del(ctx, workshopsKey()).Err()
}

// AcquireAdmissionLock serializes booking admission per user. The TTL bounds
// the critical section if the holder dies before releasing.
func (c *RedisCache) AcquireAdmissionLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, admissionLockKey(userID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseAdmissionLock(ctx context.Context, userID string) error {
	return c.client.Del(ctx, admissionLockKey(userID)).Err()
}

func workshopsKey() string {
	return "cache:workshops"
}

func admissionLockKey(userID string) string {
	return fmt.Sprintf("lock:booking:user:%s", userID)
}
