package inquiry

import (
	"github.com/druckhaus/storefront/internal/inquiry/repository"
	"github.com/druckhaus/storefront/internal/inquiry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inquiry.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
