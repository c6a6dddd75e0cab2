package catalog

import (
	"github.com/druckhaus/storefront/internal/catalog/repository"
	"github.com/druckhaus/storefront/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
