package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	cartdomain "github.com/druckhaus/storefront/internal/cart/domain"
	"github.com/druckhaus/storefront/internal/clock"
	"github.com/druckhaus/storefront/internal/config"
	pricingdomain "github.com/druckhaus/storefront/internal/pricing/domain"
	"github.com/druckhaus/storefront/internal/providers/email"
	"github.com/druckhaus/storefront/internal/providers/pdf"
	quotedomain "github.com/druckhaus/storefront/internal/quote/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Cart    cartdomain.Service
	PDF     pdf.Provider
	Email   email.Provider
	Pricing *config.PricingConfigHolder
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	genID   *snowflake.Node
	cart    cartdomain.Service
	pdf     pdf.Provider
	email   email.Provider
	pricing *config.PricingConfigHolder
}

func New(p Params) quotedomain.Service {
	return &Service{
		log:     p.Log.Named("quote.service"),
		clock:   p.Clock,
		genID:   p.GenID,
		cart:    p.Cart,
		pdf:     p.PDF,
		email:   p.Email,
		pricing: p.Pricing,
	}
}

func (s *Service) GeneratePDF(ctx context.Context, cartID string, audience pricingdomain.Audience) (io.Reader, error) {
	data, err := s.buildQuote(ctx, cartID, audience)
	if err != nil {
		return nil, err
	}

	reader, err := s.pdf.GenerateQuote(ctx, *data)
	if err != nil {
		return nil, err
	}

	s.log.Info("quote generated",
		zap.String("cart_id", cartID),
		zap.String("quote_number", data.QuoteNumber),
		zap.Int("lines", len(data.Items)),
	)
	return reader, nil
}

func (s *Service) EmailQuote(ctx context.Context, cartID string, recipient string) error {
	data, err := s.buildQuote(ctx, cartID, pricingdomain.AudienceB2C)
	if err != nil {
		return err
	}

	payload := map[string]interface{}{
		"shop_name":    data.ShopName,
		"quote_number": data.QuoteNumber,
		"issue_date":   data.IssueDate,
		"net":          data.Net,
		"vat_amount":   data.VatAmount,
		"gross":        data.Gross,
		"currency":     data.Currency,
		"footer":       data.Footer,
	}
	if err := s.email.SendTemplate(ctx, []string{recipient}, "quote_ready", payload); err != nil {
		return err
	}

	s.log.Info("quote emailed",
		zap.String("cart_id", cartID),
		zap.String("quote_number", data.QuoteNumber),
	)
	return nil
}

func (s *Service) buildQuote(ctx context.Context, cartID string, audience pricingdomain.Audience) (*pdf.QuoteData, error) {
	lines, err := s.cart.Lines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, cartdomain.ErrEmptyCart
	}

	cfg := s.pricing.Get()
	data := &pdf.QuoteData{
		ShopName:    cfg.QuoteShopName,
		QuoteNumber: fmt.Sprintf("Q-%s", s.genID.Generate()),
		IssueDate:   s.clock.Now().Format("2006-01-02"),
		Audience:    string(audience),
		Footer:      cfg.QuoteFooter,
		Items:       make([]pdf.QuoteItem, 0, len(lines)),
	}

	totals := cartdomain.Totals{}
	for _, line := range lines {
		data.Items = append(data.Items, pdf.QuoteItem{
			Description:   line.ProductName,
			Configuration: describeParams(line.Params),
			Qty:           line.Quantity,
			UnitNet:       line.UnitNet.StringFixed(2),
			Net:           line.Net.StringFixed(2),
			Gross:         line.Gross.StringFixed(2),
		})
		totals.Net = totals.Net.Add(line.Net)
		totals.VatAmount = totals.VatAmount.Add(line.VatAmount)
		totals.Gross = totals.Gross.Add(line.Gross)
		totals.Currency = line.Currency
	}

	data.Net = totals.Net.StringFixed(2)
	data.VatAmount = totals.VatAmount.StringFixed(2)
	data.Gross = totals.Gross.StringFixed(2)
	data.Currency = totals.Currency

	return data, nil
}

// describeParams renders the stored line configuration as a short human
// readable summary, e.g. "format: a3, paper: glossy, 0.5m x 0.3m".
func describeParams(raw []byte) string {
	var params pricingdomain.Params
	if err := json.Unmarshal(raw, &params); err != nil {
		return ""
	}

	parts := make([]string, 0, len(params.Selections)+1)
	keys := make([]string, 0, len(params.Selections))
	for key := range params.Selections {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, params.Selections[key]))
	}

	if params.Width != nil && params.Height != nil {
		parts = append(parts, fmt.Sprintf("%sm x %sm", params.Width.String(), params.Height.String()))
	}

	return strings.Join(parts, ", ")
}
