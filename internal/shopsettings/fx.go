package shopsettings

import (
	"github.com/druckhaus/storefront/internal/shopsettings/repository"
	"github.com/druckhaus/storefront/internal/shopsettings/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shopsettings.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
