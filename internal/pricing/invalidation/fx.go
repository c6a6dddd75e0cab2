package invalidation

import (
	"context"

	"github.com/druckhaus/storefront/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("pricing.invalidation",
	fx.Provide(newRedisClient),
	fx.Provide(New),
	fx.Invoke(runSubscriber),
)

// newRedisClient returns nil when no redis address is configured, which puts
// the bus into local-only mode.
func newRedisClient(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	return client
}

func runSubscriber(lc fx.Lifecycle, p Params) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go Subscribe(ctx, p)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
