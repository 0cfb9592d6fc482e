// Package security tracks failed logins and temporarily locks out the
// account and address behind them.
package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"job-board-backend/pkg/logger"
	"job-board-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
)

type LoginGuardConfig struct {
	MaxAttempts   int           // failures before a lockout
	AttemptWindow time.Duration // how long failures are remembered
	BlockDuration time.Duration
}

func DefaultLoginGuardConfig() LoginGuardConfig {
	return LoginGuardConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// LoginGuard keeps its counters in Redis. Without Redis it never blocks.
type LoginGuard struct {
	config LoginGuardConfig
	client func() *goredis.Client
}

func NewLoginGuard(config LoginGuardConfig) *LoginGuard {
	return &LoginGuard{config: config, client: redis.Client}
}

const (
	failPrefix    = "login:fail:"
	blockedPrefix = "login:blocked:"
)

// KEYS[1] = counter, ARGV[1] = ttl seconds
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func subjectKeys(prefix, email, ip string) []string {
	keys := []string{prefix + "email:" + strings.ToLower(strings.TrimSpace(email))}
	if ip != "" {
		keys = append(keys, prefix+"ip:"+ip)
	}
	return keys
}

// Blocked reports whether email or ip is locked out and for how long.
func (g *LoginGuard) Blocked(ctx context.Context, email, ip string) (bool, time.Duration, error) {
	client := g.client()
	if client == nil {
		return false, 0, nil
	}

	for _, key := range subjectKeys(blockedPrefix, email, ip) {
		ttl, err := client.TTL(ctx, key).Result()
		if err != nil {
			return false, 0, fmt.Errorf("check login block: %w", err)
		}
		if ttl > 0 {
			return true, ttl, nil
		}
	}
	return false, 0, nil
}

// RecordFailure counts a failed attempt and locks the subject out once the
// email reaches MaxAttempts inside the window.
func (g *LoginGuard) RecordFailure(ctx context.Context, email, ip string) (bool, error) {
	client := g.client()
	if client == nil {
		return false, nil
	}

	keys := subjectKeys(failPrefix, email, ip)
	ttl := int(g.config.AttemptWindow.Seconds())
	result, err := client.Eval(ctx, incrWithTTLScript, keys[:1], ttl).Result()
	if err != nil {
		return false, fmt.Errorf("count failed login: %w", err)
	}
	count, ok := result.(int64)
	if !ok {
		return false, errors.New("unexpected result type from login counter")
	}
	if len(keys) > 1 {
		_ = client.Eval(ctx, incrWithTTLScript, keys[1:], ttl).Err()
	}

	if int(count) < g.config.MaxAttempts {
		return false, nil
	}

	for _, key := range subjectKeys(blockedPrefix, email, ip) {
		if err := client.Set(ctx, key, "1", g.config.BlockDuration).Err(); err != nil {
			return true, fmt.Errorf("set login block: %w", err)
		}
	}
	logger.Log.Warn("Login locked out after repeated failures",
		"ip", ip,
		"attempts", count,
		"block_minutes", int(g.config.BlockDuration.Minutes()),
	)
	return true, nil
}

// Clear forgets the failures of a subject after a successful login.
func (g *LoginGuard) Clear(ctx context.Context, email, ip string) error {
	client := g.client()
	if client == nil {
		return nil
	}
	return client.Del(ctx, subjectKeys(failPrefix, email, ip)...).Err()
}
