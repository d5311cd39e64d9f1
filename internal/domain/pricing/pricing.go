package pricing

import "github.com/shopspring/decimal"

// 金額はすべて最小通貨単位（円ならそのまま、ドルならセント）のint64。

const (
	//消費税率 10%
	TaxRatePercent = 10

	//送料（固定）
	FlatShippingFee int64 = 500

	//小計がこの額以上なら送料無料
	FreeShippingThreshold int64 = 10000
)

type Line struct {
	UnitPrice int64
	Quantity  int64
}

type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	Tax         int64 `json:"tax"`
	ShippingFee int64 `json:"shipping_fee"`
	GrandTotal  int64 `json:"grand_total"`
}

var taxRate = decimal.NewFromInt(TaxRatePercent).Div(decimal.NewFromInt(100))

// Compute は明細から合計を計算する純粋関数。
// 毎回計算し直すので、キャッシュとのズレは起きない。
func Compute(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		subtotal = subtotal.Add(decimal.NewFromInt(l.UnitPrice).Mul(decimal.NewFromInt(l.Quantity)))
	}

	tax := subtotal.Mul(taxRate).Round(0)

	sub := subtotal.IntPart()
	shipping := FlatShippingFee
	if len(lines) == 0 {
		shipping = 0
	}
	if sub >= FreeShippingThreshold {
		shipping = 0
	}

	return Totals{
		Subtotal:    sub,
		Tax:         tax.IntPart(),
		ShippingFee: shipping,
		GrandTotal:  sub + tax.IntPart() + shipping,
	}
}
