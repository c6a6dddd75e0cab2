package cart

import (
	"github.com/druckhaus/storefront/internal/cart/repository"
	"github.com/druckhaus/storefront/internal/cart/service"
	"go.uber.org/fx"
)

var Module = fx.Module("cart.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
