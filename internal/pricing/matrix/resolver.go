package matrix

import (
	"github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/shopspring/decimal"
)

// Resolve turns a discrete option selection into a single unit price before
// quantity scaling. Every required group of the simple matrix needs a
// selection; an option code absent from its group is a hard error, never a
// fallback to a default, because a default would misprice an explicit choice.
func Resolve(simple, finishing *domain.OptionMatrix, selections map[string]string) (decimal.Decimal, error) {
	base, multiplier, err := resolveMatrix(simple, selections)
	if err != nil {
		return decimal.Zero, err
	}

	if finishing != nil {
		finishingBase, finishingMult, err := resolveMatrix(finishing, selections)
		if err != nil {
			return decimal.Zero, err
		}
		base = base.Add(finishingBase)
		multiplier = multiplier.Mul(finishingMult)
	}

	return base.Mul(multiplier), nil
}

// resolveMatrix combines the selected options of one matrix under its rule.
// Additive matrices sum price deltas; multiplicative matrices multiply them.
// Option multipliers are collected separately and applied by the caller after
// both matrices combined, so a finishing multiplier scales the whole base.
func resolveMatrix(m *domain.OptionMatrix, selections map[string]string) (decimal.Decimal, decimal.Decimal, error) {
	multiplier := decimal.NewFromInt(1)

	var contribution decimal.Decimal
	switch m.Rule {
	case domain.CombineMultiplicative:
		contribution = decimal.NewFromInt(1)
	default:
		contribution = decimal.Zero
	}

	for _, group := range m.Groups {
		code, selected := selections[group.Code]
		if !selected {
			if group.Required {
				return decimal.Zero, decimal.Zero, &domain.SelectionError{Group: group.Code, MissingGroup: true}
			}
			continue
		}

		opt, ok := m.OptionByCode(group, code)
		if !ok {
			return decimal.Zero, decimal.Zero, &domain.SelectionError{Group: group.Code, Option: code}
		}

		switch m.Rule {
		case domain.CombineMultiplicative:
			contribution = contribution.Mul(opt.PriceDelta)
		default:
			contribution = contribution.Add(opt.PriceDelta)
		}
		if !opt.Multiplier.IsZero() {
			multiplier = multiplier.Mul(opt.Multiplier)
		}
	}

	return contribution, multiplier, nil
}
