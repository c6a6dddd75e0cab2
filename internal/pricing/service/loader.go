package service

import (
	"context"
	"fmt"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// loadConfig builds the immutable PriceConfig for one product from catalog
// rows. The whole configuration is assembled and validated before it becomes
// visible to any reader; a calculation in flight keeps the config it started
// with even if an invalidation lands mid-run.
func (s *Service) loadConfig(ctx context.Context, id snowflake.ID) (*domain.PriceConfig, error) {
	product, err := s.catalog.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	strategy, err := s.buildStrategy(ctx, product)
	if err != nil {
		return nil, err
	}

	minQty := product.MinQuantity
	if minQty < 1 {
		minQty = 1
	}

	return &domain.PriceConfig{
		ProductID: product.ID,
		Slug:      product.Slug,
		Name:      product.Name,
		Strategy:  strategy,
		Quantity:  domain.QuantityBounds{Min: minQty, Max: product.MaxQuantity},
		LoadedAt:  s.clock.Now(),
	}, nil
}

func (s *Service) buildStrategy(ctx context.Context, product *catalogdomain.Product) (domain.Strategy, error) {
	switch product.PriceType {
	case catalogdomain.PriceTypeOnRequest:
		return domain.OnRequestStrategy{}, nil

	case catalogdomain.PriceTypeFixed:
		if product.UnitPrice == nil || product.UnitPrice.IsNegative() {
			return nil, configErr(product.ID, "fixed strategy without a unit price")
		}
		return domain.FixedStrategy{UnitPrice: *product.UnitPrice}, nil

	case catalogdomain.PriceTypeMatrix:
		if product.SimpleMatrixID == nil {
			return nil, configErr(product.ID, "matrix strategy without a simple matrix")
		}
		simple, err := s.loadMatrix(ctx, product.ID, *product.SimpleMatrixID)
		if err != nil {
			return nil, err
		}
		var finishing *domain.OptionMatrix
		if product.FinishingMatrixID != nil {
			finishing, err = s.loadMatrix(ctx, product.ID, *product.FinishingMatrixID)
			if err != nil {
				return nil, err
			}
		}
		return domain.MatrixStrategy{Simple: simple, Finishing: finishing}, nil

	case catalogdomain.PriceTypeArea:
		if product.AreaTableID == nil {
			return nil, configErr(product.ID, "area strategy without a price table")
		}
		table, err := s.loadAreaTable(ctx, product.ID, *product.AreaTableID)
		if err != nil {
			return nil, err
		}
		return domain.AreaStrategy{
			Table:  table,
			Bounds: dimensionBounds(product),
		}, nil

	default:
		return nil, configErr(product.ID, fmt.Sprintf("unknown price type %q", product.PriceType))
	}
}

// loadMatrix flattens the stored groups and options into the resolver arena.
// Options are fetched ordered by group, so each group owns one contiguous
// range of the options slice.
func (s *Service) loadMatrix(ctx context.Context, productID, matrixID snowflake.ID) (*domain.OptionMatrix, error) {
	record, err := s.catalog.FindMatrix(ctx, s.db, matrixID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, configErr(productID, fmt.Sprintf("matrix %s not found", matrixID))
	}

	rule := domain.CombineRule(record.Matrix.Rule)
	switch rule {
	case domain.CombineAdditive, domain.CombineMultiplicative:
	default:
		return nil, configErr(productID, fmt.Sprintf("matrix %s has unknown rule %q", record.Matrix.Code, record.Matrix.Rule))
	}

	byGroup := make(map[snowflake.ID][]catalogdomain.AttributeOption, len(record.Groups))
	for _, opt := range record.Options {
		byGroup[opt.GroupID] = append(byGroup[opt.GroupID], opt)
	}

	m := &domain.OptionMatrix{
		ID:      record.Matrix.ID,
		Code:    record.Matrix.Code,
		Rule:    rule,
		Groups:  make([]domain.AttributeGroup, 0, len(record.Groups)),
		Options: make([]domain.AttributeOption, 0, len(record.Options)),
	}

	for _, group := range record.Groups {
		opts := byGroup[group.ID]
		if group.Required && len(opts) == 0 {
			return nil, configErr(productID, fmt.Sprintf("required group %q has no options", group.Code))
		}
		start := len(m.Options)
		for _, opt := range opts {
			multiplier := opt.Multiplier
			if multiplier.IsZero() {
				multiplier = decimal.NewFromInt(1)
			}
			m.Options = append(m.Options, domain.AttributeOption{
				ID:         opt.ID,
				Code:       opt.Code,
				Label:      opt.Label,
				PriceDelta: opt.PriceDelta,
				Multiplier: multiplier,
			})
		}
		m.Groups = append(m.Groups, domain.AttributeGroup{
			ID:       group.ID,
			Code:     group.Code,
			Label:    group.Label,
			Required: group.Required,
			OptStart: start,
			OptEnd:   len(m.Options),
		})
	}

	return m, nil
}

func (s *Service) loadAreaTable(ctx context.Context, productID, tableID snowflake.ID) (*domain.AreaTable, error) {
	record, err := s.catalog.FindAreaTable(ctx, s.db, tableID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, configErr(productID, fmt.Sprintf("area table %s not found", tableID))
	}
	if len(record.Tiers) == 0 {
		return nil, configErr(productID, fmt.Sprintf("area table %q has no tiers", record.Table.Code))
	}

	table := &domain.AreaTable{
		ID:    record.Table.ID,
		Code:  record.Table.Code,
		Tiers: make([]domain.AreaTier, 0, len(record.Tiers)),
	}
	prev := 0
	for _, tier := range record.Tiers {
		if tier.MinQuantity < 1 || tier.MinQuantity <= prev {
			return nil, configErr(productID, fmt.Sprintf("area table %q breakpoints not strictly increasing", record.Table.Code))
		}
		if !tier.PricePerSqm.IsPositive() {
			return nil, configErr(productID, fmt.Sprintf("area table %q has a non-positive coefficient", record.Table.Code))
		}
		prev = tier.MinQuantity
		table.Tiers = append(table.Tiers, domain.AreaTier{
			MinQuantity: tier.MinQuantity,
			PricePerSqm: tier.PricePerSqm,
		})
	}
	return table, nil
}

func dimensionBounds(product *catalogdomain.Product) domain.DimensionBounds {
	bounds := domain.DimensionBounds{}
	if product.MinWidthM != nil {
		bounds.MinWidth = *product.MinWidthM
	}
	if product.MinHeightM != nil {
		bounds.MinHeight = *product.MinHeightM
	}
	if product.MaxWidthM != nil {
		bounds.MaxWidth = *product.MaxWidthM
	}
	if product.MaxHeightM != nil {
		bounds.MaxHeight = *product.MaxHeightM
	}
	return bounds
}

func configErr(productID snowflake.ID, reason string) error {
	return &domain.ConfigurationError{ProductID: productID.String(), Reason: reason}
}
