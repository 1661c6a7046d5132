// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout は起動時の接続確認のタイムアウトです。
const pingTimeout = 5 * time.Second

// Options はRedisへの接続設定です。
type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient はRedisクライアントを生成し、接続を確認します。
// 接続できない場合はクライアントを閉じてエラーを返します。
func NewRedisClient(ctx context.Context, opts Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opts.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opts.Addr)
	return rdb, nil
}
