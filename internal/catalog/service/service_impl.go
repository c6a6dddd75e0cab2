package service

import (
	"context"
	"fmt"

	catalogdomain "github.com/druckhaus/storefront/internal/catalog/domain"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/pricing/invalidation"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  catalogdomain.Repository
	Bus   invalidation.Bus
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  catalogdomain.Repository
	bus   invalidation.Bus
}

func New(p Params) catalogdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
		bus:   p.Bus,
	}
}

func (s *Service) GetProduct(ctx context.Context, id snowflake.ID) (*catalogdomain.Product, error) {
	product, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, catalogdomain.ErrProductNotFound
	}
	return product, nil
}

func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*catalogdomain.Product, error) {
	product, err := s.repo.FindProductBySlug(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, catalogdomain.ErrProductNotFound
	}
	return product, nil
}

func (s *Service) ListProducts(ctx context.Context, limit, offset int) ([]catalogdomain.Product, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	products, err := s.repo.ListActiveProducts(ctx, s.db, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountActiveProducts(ctx, s.db)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdatePricing applies an admin pricing edit in one transaction and then
// invalidates the calculator's cached configuration for the product. The
// invalidation happens after commit so a peer reloading concurrently never
// sees the half-written state.
func (s *Service) UpdatePricing(ctx context.Context, productID snowflake.ID, req catalogdomain.UpdatePricingRequest) (*catalogdomain.Product, error) {
	product, err := s.repo.FindProductByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, catalogdomain.ErrProductNotFound
	}

	if err := applyPricingFields(product, req); err != nil {
		return nil, err
	}
	product.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateProduct(ctx, tx, product); err != nil {
			return err
		}
		if len(req.AreaTiers) > 0 {
			if product.AreaTableID == nil {
				return fmt.Errorf("%w: product has no area table", catalogdomain.ErrInvalidPricing)
			}
			tiers := make([]catalogdomain.AreaPriceTier, 0, len(req.AreaTiers))
			for _, in := range req.AreaTiers {
				if in.MinQuantity < 1 || in.PricePerSqm.IsNegative() {
					return fmt.Errorf("%w: bad tier %d", catalogdomain.ErrInvalidPricing, in.MinQuantity)
				}
				tiers = append(tiers, catalogdomain.AreaPriceTier{
					ID:          s.genID.Generate(),
					TableID:     *product.AreaTableID,
					MinQuantity: in.MinQuantity,
					PricePerSqm: in.PricePerSqm,
				})
			}
			if err := s.repo.ReplaceAreaTiers(ctx, tx, *product.AreaTableID, tiers); err != nil {
				return err
			}
		}
		for _, in := range req.Options {
			opt := catalogdomain.AttributeOption{}
			if in.PriceDelta != nil {
				opt.PriceDelta = *in.PriceDelta
			}
			if in.Multiplier != nil {
				if !in.Multiplier.IsPositive() {
					return fmt.Errorf("%w: multiplier must be positive", catalogdomain.ErrInvalidPricing)
				}
				opt.Multiplier = *in.Multiplier
			}
			if err := s.repo.UpdateOptionDelta(ctx, tx, in.ID, opt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bus.Invalidate(ctx, productID.String())

	s.log.Info("product pricing updated",
		zap.String("product_id", productID.String()),
		zap.String("price_type", string(product.PriceType)),
	)
	return product, nil
}

func applyPricingFields(product *catalogdomain.Product, req catalogdomain.UpdatePricingRequest) error {
	if req.PriceType != nil {
		switch *req.PriceType {
		case catalogdomain.PriceTypeOnRequest,
			catalogdomain.PriceTypeFixed,
			catalogdomain.PriceTypeMatrix,
			catalogdomain.PriceTypeArea:
			product.PriceType = *req.PriceType
		default:
			return fmt.Errorf("%w: unknown price type %q", catalogdomain.ErrInvalidPricing, *req.PriceType)
		}
	}
	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: negative unit price", catalogdomain.ErrInvalidPricing)
		}
		product.UnitPrice = req.UnitPrice
	}
	if req.MinQuantity != nil {
		if *req.MinQuantity < 1 {
			return fmt.Errorf("%w: min quantity below 1", catalogdomain.ErrInvalidPricing)
		}
		product.MinQuantity = *req.MinQuantity
	}
	if req.MaxQuantity != nil {
		if *req.MaxQuantity < 0 {
			return fmt.Errorf("%w: negative max quantity", catalogdomain.ErrInvalidPricing)
		}
		product.MaxQuantity = *req.MaxQuantity
	}
	if product.MaxQuantity > 0 && product.MinQuantity > product.MaxQuantity {
		return fmt.Errorf("%w: min quantity above max", catalogdomain.ErrInvalidPricing)
	}
	if req.MinWidthM != nil {
		product.MinWidthM = req.MinWidthM
	}
	if req.MinHeightM != nil {
		product.MinHeightM = req.MinHeightM
	}
	if req.MaxWidthM != nil {
		product.MaxWidthM = req.MaxWidthM
	}
	if req.MaxHeightM != nil {
		product.MaxHeightM = req.MaxHeightM
	}
	return nil
}
