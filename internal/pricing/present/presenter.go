package present

import "github.com/druckhaus/storefront/internal/pricing/domain"

// Present renders a PriceResult for the given audience. Business buyers see
// the net figure emphasized, consumers the gross figure with a VAT note. No
// recomputation happens here; the result is copied, never altered.
func Present(result *domain.PriceResult, audience domain.Audience) domain.DisplayPrice {
	display := domain.DisplayPrice{
		Audience:  audience,
		Net:       result.Net,
		VatAmount: result.VatAmount,
		Gross:     result.Gross,
		Currency:  result.Currency,
		OnRequest: result.OnRequest,
	}

	if result.OnRequest {
		display.VatNote = "price on request"
		return display
	}

	switch audience {
	case domain.AudienceB2B:
		display.Emphasized = result.Net
		display.EmphasizedLabel = "net"
		display.VatNote = "excl. VAT"
	default:
		display.Emphasized = result.Gross
		display.EmphasizedLabel = "gross"
		display.VatNote = "includes VAT"
	}

	return display
}
