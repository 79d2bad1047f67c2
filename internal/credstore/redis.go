package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/milk-customer/internal/config"
	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// Redis хранит записи в виде двух ключей без TTL.
type Redis struct {
	Db     *redis.Client
	prefix string
	log    *slog.Logger
}

// NewRedis подключается к redis и проверяет соединение.
func NewRedis(ctx context.Context, cfg config.RedisConnection, prefix string, log *slog.Logger) (*Redis, error) {
	const op = "credstore.NewRedis"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Redis{Db: db, prefix: prefix, log: log}, nil
}

func (r *Redis) key(name string) string {
	return r.prefix + name
}

func (r *Redis) StoreAuth(ctx context.Context, token string, user json.RawMessage) error {
	const op = "credstore.Redis.StoreAuth"
	_, err := r.Db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(KeyToken), token, 0)
		pipe.Set(ctx, r.key(KeyUser), userText(user), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Redis) Token(ctx context.Context) (string, bool, error) {
	const op = "credstore.Redis.Token"
	val, err := r.Db.Get(ctx, r.key(KeyToken)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, val != "", nil
}

func (r *Redis) User(ctx context.Context) (Profile, error) {
	const op = "credstore.Redis.User"
	val, err := r.Db.Get(ctx, r.key(KeyUser)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p, ok := parseProfile(val)
	if !ok {
		r.log.Warn("stored user profile is not valid JSON", sl.Op(op))
	}
	return p, nil
}

func (r *Redis) Logout(ctx context.Context) error {
	const op = "credstore.Redis.Logout"
	if err := r.Db.Del(ctx, r.key(KeyToken), r.key(KeyUser)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *Redis) ClearToken(ctx context.Context) error {
	const op = "credstore.Redis.ClearToken"
	if err := r.Db.Del(ctx, r.key(KeyToken)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с redis.
func (r *Redis) Close() error {
	return r.Db.Close()
}
