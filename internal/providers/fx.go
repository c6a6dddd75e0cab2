package providers

import (
	"github.com/druckhaus/storefront/internal/providers/email"
	"github.com/druckhaus/storefront/internal/providers/pdf"
	"github.com/druckhaus/storefront/internal/providers/slack"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
	slack.Module,
)
