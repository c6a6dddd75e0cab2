package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type QuoteData struct {
	ShopName    string
	QuoteNumber string
	IssueDate   string
	Audience    string

	Items []QuoteItem

	Net       string
	VatAmount string
	Gross     string
	Currency  string

	Footer string
}

type QuoteItem struct {
	Description   string
	Configuration string
	Qty           int
	UnitNet       string
	Net           string
	Gross         string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateQuote(ctx context.Context, quote QuoteData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(15,
		text.NewCol(12, quote.ShopName, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(10,
		text.NewCol(12, "Quote", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(15,
		col.New(6).Add(
			text.New("Quote number: "+quote.QuoteNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+quote.IssueDate, props.Text{Top: 4}),
		),
		col.New(6),
	)

	m.AddRow(10,
		text.NewCol(5, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit net", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Net", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Gross", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range quote.Items {
		description := item.Description
		if item.Configuration != "" {
			description = fmt.Sprintf("%s (%s)", item.Description, item.Configuration)
		}
		m.AddRow(12,
			text.NewCol(5, description, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitNet, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Net, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Gross, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Net total", props.Text{Size: 9}),
		text.NewCol(2, quote.Net, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "VAT", props.Text{Size: 9}),
		text.NewCol(2, quote.VatAmount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, quote.Gross, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	m.AddRow(15,
		text.NewCol(12, quote.Footer, props.Text{Size: 8, Top: 5}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
