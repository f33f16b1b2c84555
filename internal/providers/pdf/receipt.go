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
	receiptdomain "github.com/ruapotato/hivematrix-ledger/internal/receipt/domain"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt *receiptdomain.Receipt) (io.Reader, error) {
	if receipt == nil {
		return nil, fmt.Errorf("receipt is nil")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(30,
		text.NewCol(8, "Monthly Billing Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New(receipt.CompanyName, props.Text{Style: fontstyle.Bold}),
			text.New("Account: "+receipt.AccountNumber, props.Text{Top: 5}),
			text.New("Plan: "+receipt.PlanName, props.Text{Top: 9}),
		),
		col.New(6).Add(
			text.New("Service period: "+receipt.Period.String(), props.Text{Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range receipt.UnitLines {
		if line.Quantity == 0 {
			continue
		}
		desc := string(line.Kind)
		if line.BilledQuantity != float64(line.Quantity) {
			desc = fmt.Sprintf("%s (%.2f prepaid hours applied)", desc, receipt.PrepaidHoursUsed)
		}
		m.AddRow(8,
			text.NewCol(6, desc, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", line.Quantity), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(line.Rate), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(line.Subtotal), props.Text{Size: 9, Align: align.Right}),
		)
	}

	for _, charge := range receipt.ChargeLines {
		m.AddRow(8,
			text.NewCol(6, charge.Name, props.Text{Size: 9}),
			text.NewCol(2, "1", props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(charge.MonthlyFee), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, money(charge.MonthlyFee), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Unit charges", props.Text{Size: 9}),
		text.NewCol(2, money(receipt.UnitTotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Fixed charges", props.Text{Size: 9}),
		text.NewCol(2, money(receipt.ChargeTotal), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(2, money(receipt.GrandTotal), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
