// Package invalidation fans pricing-config invalidations out to every running
// instance. The local calculator cache is dropped synchronously; peers learn
// about the edit over a redis channel. Without redis the bus degrades to
// local-only, which is correct for a single-instance deployment.
package invalidation

import (
	"context"

	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const channel = "pricing:invalidate"

// Bus broadcasts a product's pricing-config invalidation.
type Bus interface {
	Invalidate(ctx context.Context, productID string)
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Pricing pricingdomain.Service
	Redis   *redis.Client `optional:"true"`
}

type bus struct {
	log     *zap.Logger
	pricing pricingdomain.Service
	redis   *redis.Client
}

func New(p Params) Bus {
	return &bus{
		log:     p.Log.Named("pricing.invalidation"),
		pricing: p.Pricing,
		redis:   p.Redis,
	}
}

func (b *bus) Invalidate(ctx context.Context, productID string) {
	b.pricing.Invalidate(ctx, productID)

	if b.redis == nil {
		return
	}
	if err := b.redis.Publish(ctx, channel, productID).Err(); err != nil {
		// Peers will self-heal when their TTL expires; the local drop above
		// already made this instance consistent.
		b.log.Warn("invalidation publish failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}

// Subscribe runs until ctx is cancelled, dropping the local config cache for
// every product ID announced by a peer.
func Subscribe(ctx context.Context, p Params) {
	if p.Redis == nil {
		return
	}
	log := p.Log.Named("pricing.invalidation")
	sub := p.Redis.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			log.Debug("invalidation received", zap.String("product_id", msg.Payload))
			p.Pricing.Invalidate(ctx, msg.Payload)
		}
	}
}
