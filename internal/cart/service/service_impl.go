package service

import (
	"context"
	"encoding/json"

	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	"github.com/druckhaus/storefront/internal/clock"
	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/druckhaus/storefront/internal/pricing/present"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Repo    cartdomain.Repository
	Pricing pricingdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	genID   *snowflake.Node
	repo    cartdomain.Repository
	pricing pricingdomain.Service
}

func New(p Params) cartdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("cart.service"),
		clock:   p.Clock,
		genID:   p.GenID,
		repo:    p.Repo,
		pricing: p.Pricing,
	}
}

// AddItem prices the configuration, freezes the result and persists the line.
// Any pricing failure aborts the add; a cart never holds a line without a
// frozen snapshot, and on-request products never reach the cart at all.
func (s *Service) AddItem(ctx context.Context, cartID string, req cartdomain.AddItemRequest) (*cartdomain.CartLine, error) {
	result, err := s.pricing.Calculate(ctx, req.ProductID, req.Params)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.pricing.FreezeSnapshot(result)
	if err != nil {
		return nil, err
	}

	info, err := s.pricing.PriceFrom(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	params, err := json.Marshal(req.Params)
	if err != nil {
		return nil, err
	}

	line := &cartdomain.CartLine{
		ID:          s.genID.Generate(),
		CartID:      cartID,
		ProductID:   result.ProductID,
		ProductName: info.Name,
		Quantity:    result.Quantity,
		Params:      params,
		SnapshotID:  snapshot.ID,
		UnitNet:     result.UnitNet,
		Net:         result.Net,
		VatAmount:   result.VatAmount,
		Gross:       result.Gross,
		VatRate:     result.VatRate,
		Currency:    result.Currency,
		FrozenAt:    snapshot.FrozenAt,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.InsertLine(ctx, s.db, line); err != nil {
		return nil, err
	}

	s.log.Info("cart line added",
		zap.String("cart_id", cartID),
		zap.String("product_id", result.ProductID.String()),
		zap.Int("quantity", result.Quantity),
		zap.String("gross", result.Gross.String()),
	)
	return line, nil
}

func (s *Service) GetCart(ctx context.Context, cartID string, audience pricingdomain.Audience) (*cartdomain.CartView, error) {
	lines, err := s.repo.ListLines(ctx, s.db, cartID)
	if err != nil {
		return nil, err
	}

	view := &cartdomain.CartView{
		CartID:   cartID,
		Audience: audience,
		Lines:    make([]cartdomain.LineView, 0, len(lines)),
	}

	totals := cartdomain.Totals{}
	for _, line := range lines {
		result := frozenResult(line)
		view.Lines = append(view.Lines, cartdomain.LineView{
			ID:          line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			Display:     present.Present(&result, audience),
			FrozenAt:    line.FrozenAt,
		})
		totals.Net = totals.Net.Add(line.Net)
		totals.VatAmount = totals.VatAmount.Add(line.VatAmount)
		totals.Gross = totals.Gross.Add(line.Gross)
		totals.Currency = line.Currency
	}
	view.Totals = totals

	aggregate := pricingdomain.PriceResult{
		Net:       totals.Net,
		VatAmount: totals.VatAmount,
		Gross:     totals.Gross,
		Currency:  totals.Currency,
	}
	view.Display = present.Present(&aggregate, audience)

	return view, nil
}

func (s *Service) RemoveItem(ctx context.Context, cartID string, lineID snowflake.ID) error {
	line, err := s.repo.FindLine(ctx, s.db, cartID, lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return cartdomain.ErrLineNotFound
	}
	return s.repo.DeleteLine(ctx, s.db, cartID, lineID)
}

// Revalidate re-prices every line with the current configuration and reports
// where the fresh price no longer matches the frozen one. The stored snapshots
// are read-only here; accepting a new price is an explicit, separate action.
func (s *Service) Revalidate(ctx context.Context, cartID string) (*cartdomain.RevalidationReport, error) {
	lines, err := s.repo.ListLines(ctx, s.db, cartID)
	if err != nil {
		return nil, err
	}

	report := &cartdomain.RevalidationReport{
		CartID: cartID,
		Lines:  make([]cartdomain.LineDrift, 0, len(lines)),
	}

	for _, line := range lines {
		drift := cartdomain.LineDrift{
			LineID:      line.ID,
			ProductID:   line.ProductID,
			FrozenGross: line.Gross,
		}

		var params pricingdomain.Params
		if err := json.Unmarshal(line.Params, &params); err != nil {
			drift.Drifted = true
			drift.Error = "stored configuration unreadable"
			report.Lines = append(report.Lines, drift)
			report.Drifted = true
			continue
		}

		fresh, err := s.pricing.Calculate(ctx, line.ProductID.String(), params)
		switch {
		case err != nil:
			drift.Drifted = true
			drift.Error = err.Error()
		case !fresh.Billable():
			drift.Drifted = true
			drift.Error = "product is now on request"
		default:
			gross := fresh.Gross
			drift.CurrentGross = &gross
			drift.Drifted = !fresh.Gross.Equal(line.Gross)
		}

		if drift.Drifted {
			report.Drifted = true
		}
		report.Lines = append(report.Lines, drift)
	}

	return report, nil
}

func (s *Service) Lines(ctx context.Context, cartID string) ([]cartdomain.CartLine, error) {
	return s.repo.ListLines(ctx, s.db, cartID)
}

func frozenResult(line cartdomain.CartLine) pricingdomain.PriceResult {
	return pricingdomain.PriceResult{
		ProductID:    line.ProductID,
		Quantity:     line.Quantity,
		UnitNet:      line.UnitNet,
		Net:          line.Net,
		VatAmount:    line.VatAmount,
		Gross:        line.Gross,
		VatRate:      line.VatRate,
		Currency:     line.Currency,
		CalculatedAt: line.FrozenAt,
	}
}
