package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/talentoplus/backend/internal/config"
)

var ErrCodeNotFound = errors.New("code not found")

func ResetPasswordKey(username string) string {
	return fmt.Sprintf("otp_%s_reset_password", username)
}

// CodeStore 将一次性验证码保存在 redis 中
type CodeStore struct {
	rdb     *redis.Client
	timeout time.Duration
}

func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func NewCodeStore(cfg *config.Config, rdb *redis.Client) *CodeStore {
	return &CodeStore{
		rdb:     rdb,
		timeout: time.Duration(cfg.Redis.OperationTimeout) * time.Second,
	}
}

func (s *CodeStore) SaveCode(ctx context.Context, key string, code string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Set(ctx, key, code, ttl).Err()
}

func (s *CodeStore) GetCode(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	code, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeNotFound
		}
		return "", err
	}

	return code, nil
}

func (s *CodeStore) DeleteCode(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.rdb.Del(ctx, key).Err()
}
