// Package ratelimiter は外部API呼び出しの頻度・予算を制限します。
package ratelimiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	// Allow は今すぐ1回分の予算を消費できるかを返します（待機しません）。
	Allow() bool
	// Wait は1回分の予算が空くまで待機します。
	Wait(ctx context.Context) error
}

// RateLimiterは、interval あたり limit 回までの操作を許可するトークンバケットです。
// 上限までのバーストを許可します。
type RateLimiter struct {
	l *rate.Limiter
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は常に拒否するリミッターになります。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{l: rate.NewLimiter(0, 0)}
	}
	return &RateLimiter{l: rate.NewLimiter(rate.Every(interval/time.Duration(limit)), limit)}
}

// Allow は今すぐ1回分の予算を消費できるかを返します。
func (rl *RateLimiter) Allow() bool {
	return rl.l.Allow()
}

// Wait は予算が空くまで待機します。ctx がキャンセルされるとエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.l.Wait(ctx)
}
