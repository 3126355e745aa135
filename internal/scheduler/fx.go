package scheduler

import (
	"github.com/armoniahq/armonia/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Module("rollup.scheduler",
	fx.Provide(
		NewLocker,
		NewScheduler,
	),
)

// NewLocker picks the Redis-backed lease when Redis is configured and an
// in-process one otherwise.
func NewLocker(cfg config.Config, client *redis.Client) Locker {
	if cfg.Redis.Addr != "" && client != nil {
		return NewRedisLocker(client)
	}
	return NewLocalLocker()
}
