package vat

import "github.com/shopspring/decimal"

// Breakdown is a consistent net/tax/gross triple.
// Invariant: Gross.Sub(Net) equals VatAmount exactly after rounding.
type Breakdown struct {
	Net       decimal.Decimal
	VatAmount decimal.Decimal
	Gross     decimal.Decimal
}

// Split decomposes a base amount under the given VAT rate (fraction, e.g. 0.20).
// The base is rounded to two decimals half-up once on entry and every derived
// field once after that, so a sub-cent base can never leak into the breakdown
// and gross minus net always equals the VAT amount exactly.
func Split(base decimal.Decimal, rate decimal.Decimal, baseIsGross bool) Breakdown {
	base = round2(base)
	if baseIsGross {
		net := round2(base.Div(decimal.NewFromInt(1).Add(rate)))
		return Breakdown{
			Net:       net,
			VatAmount: round2(base.Sub(net)),
			Gross:     base,
		}
	}

	vatAmount := round2(base.Mul(rate))
	return Breakdown{
		Net:       base,
		VatAmount: vatAmount,
		Gross:     base.Add(vatAmount),
	}
}

// round2 rounds half away from zero at two decimals, the canonical money
// rounding across the engine.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round2 exposes the canonical rounding for callers that must round a raw
// amount exactly once before splitting.
func Round2(d decimal.Decimal) decimal.Decimal {
	return round2(d)
}
