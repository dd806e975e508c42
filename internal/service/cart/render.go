package cart

import (
	"context"

	"royalwood-storefront/internal/domain"
	"royalwood-storefront/internal/money"

	"github.com/shopspring/decimal"
)

// LineView is one rendered cart line.
type LineView struct {
	ProductID        string          `json:"productId"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	UnitPriceDisplay string          `json:"unitPriceDisplay"`
	Quantity         int             `json:"quantity"`
	LineTotal        decimal.Decimal `json:"lineTotal"`
	LineTotalDisplay string          `json:"lineTotalDisplay"`
	ImageRef         string          `json:"imageRef,omitempty"`
}

// Totals summarizes a populated cart. Subtotal and Total are always equal;
// delivery and tax are not charged.
type Totals struct {
	ItemCount       int             `json:"itemCount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SubtotalDisplay string          `json:"subtotalDisplay"`
	Total           decimal.Decimal `json:"total"`
	TotalDisplay    string          `json:"totalDisplay"`
}

// View is the display model of a cart. An empty cart has Empty set and
// neither lines nor totals.
type View struct {
	Empty  bool       `json:"empty"`
	Lines  []LineView `json:"lines,omitempty"`
	Totals *Totals    `json:"totals,omitempty"`
}

// Render projects lines into a View.
func Render(lines []domain.CartLine) View {
	if len(lines) == 0 {
		return View{Empty: true}
	}

	views := make([]LineView, 0, len(lines))
	subtotal := decimal.Zero
	count := 0
	for _, l := range lines {
		lineTotal := l.LineTotal()
		subtotal = subtotal.Add(lineTotal)
		count += l.Quantity
		views = append(views, LineView{
			ProductID:        l.ProductID,
			Name:             l.Name,
			UnitPrice:        l.UnitPrice,
			UnitPriceDisplay: money.FormatINR(l.UnitPrice),
			Quantity:         l.Quantity,
			LineTotal:        lineTotal,
			LineTotalDisplay: money.FormatINR(lineTotal),
			ImageRef:         l.ImageRef,
		})
	}

	return View{
		Lines: views,
		Totals: &Totals{
			ItemCount:       count,
			Subtotal:        subtotal,
			SubtotalDisplay: money.FormatINR(subtotal),
			Total:           subtotal,
			TotalDisplay:    money.FormatINR(subtotal),
		},
	}
}

type lineReader interface {
	ReadAll(ctx context.Context) ([]domain.CartLine, error)
}

// Renderer re-reads the store on every call; it keeps no state of its own.
type Renderer struct {
	store lineReader
}

func NewRenderer(store lineReader) *Renderer {
	return &Renderer{store: store}
}

func (r *Renderer) Render(ctx context.Context) (View, error) {
	lines, err := r.store.ReadAll(ctx)
	if err != nil {
		return View{}, err
	}
	return Render(lines), nil
}
