package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	failureWindow = 15 * time.Minute
	maxFailures   = 5
)

// LoginGuard throttles repeated credential failures per login handle, backed
// by Redis. Key format: login_fail:<email>. The guard is advisory: callers
// treat its errors as "no opinion" so a Redis outage never locks logins out.
type LoginGuard struct {
	client *redis.Client
}

// NewLoginGuard creates a LoginGuard wrapping the given Redis client.
func NewLoginGuard(client *redis.Client) *LoginGuard {
	return &LoginGuard{client: client}
}

// TooManyFailures reports whether the handle has exhausted its failure budget
// within the current window.
func (g *LoginGuard) TooManyFailures(ctx context.Context, email string) (bool, error) {
	n, err := g.client.Get(ctx, g.key(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login guard check: %w", err)
	}
	return n >= maxFailures, nil
}

// RecordFailure counts one failed attempt. The window restarts on each
// failure so a slow trickle of attempts keeps the counter alive.
func (g *LoginGuard) RecordFailure(ctx context.Context, email string) error {
	key := g.key(email)
	if err := g.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("login guard incr: %w", err)
	}
	if err := g.client.Expire(ctx, key, failureWindow).Err(); err != nil {
		return fmt.Errorf("login guard expire: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (g *LoginGuard) Reset(ctx context.Context, email string) error {
	if err := g.client.Del(ctx, g.key(email)).Err(); err != nil {
		return fmt.Errorf("login guard reset: %w", err)
	}
	return nil
}

func (g *LoginGuard) key(email string) string {
	return "login_fail:" + email
}
