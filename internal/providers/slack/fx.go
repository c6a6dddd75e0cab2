package slack

import "go.uber.org/fx"

var Module = fx.Module("providers.slack",
	fx.Provide(func() Provider { return &NoOpProvider{} }),
)
