package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/shift-roster/internal/config"
)

// Redis holds the client backing the session store. REDIS_ADDR may list
// several comma-separated addresses, in which case a cluster client is used.
type Redis struct {
	Client redis.UniversalClient
	addrs  []string
}

// NewRedis builds the client and pings it once. An unreachable server is
// logged, not fatal; readiness reports it until it comes up.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	addrs := splitAddrs(cfg.Addr)
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	r := &Redis{Client: client, addrs: addrs}
	if err := r.Ping(context.Background()); err != nil {
		logger.Warn("session store unreachable", zap.Strings("addrs", addrs), zap.Error(err))
	} else {
		logger.Info("session store connected", zap.Strings("addrs", addrs))
	}
	return r
}

func splitAddrs(raw string) []string {
	var out []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Close releases the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping satisfies the readiness check.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("session store not configured")
	}
	return r.Client.Ping(ctx).Err()
}
