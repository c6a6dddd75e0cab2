package main

import (
	"github.com/druckhaus/storefront/internal/cart"
	"github.com/druckhaus/storefront/internal/catalog"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	"github.com/druckhaus/storefront/internal/feed"
	"github.com/druckhaus/storefront/internal/inquiry"
	"github.com/druckhaus/storefront/internal/logger"
	"github.com/druckhaus/storefront/internal/migration"
	"github.com/druckhaus/storefront/internal/observability/metrics"
	"github.com/druckhaus/storefront/internal/pricing"
	"github.com/druckhaus/storefront/internal/pricing/invalidation"
	"github.com/druckhaus/storefront/internal/providers"
	"github.com/druckhaus/storefront/internal/quote"
	"github.com/druckhaus/storefront/internal/server"
	"github.com/druckhaus/storefront/internal/shopsettings"
	"github.com/druckhaus/storefront/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		metrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		providers.Module,
		migration.Module,

		// Functional domains
		shopsettings.Module,
		catalog.Module,
		pricing.Module,
		invalidation.Module,
		cart.Module,
		quote.Module,
		feed.Module,
		inquiry.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
