package feed

import (
	"github.com/druckhaus/storefront/internal/feed/service"
	"go.uber.org/fx"
)

var Module = fx.Module("feed.service",
	fx.Provide(service.New),
)
