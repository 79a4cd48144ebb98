package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// ErrPriceUnavailable is returned when either the position or the rate has no price.
var ErrPriceUnavailable = errors.New("price data not available")

// DefaultConversionSymbol is the FX pair used for the converted total.
const DefaultConversionSymbol = "USDTHB=X"

// Valuation is the value of a single position in two currencies.
type Valuation struct {
	Symbol    string
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Rate      decimal.Decimal
	Native    decimal.Decimal
	Converted decimal.Decimal
}

// Text renders the valuation reply. Totals are float products so that
// rounding matches the percent figures in the report.
func (v Valuation) Text() string {
	native := v.Price.InexactFloat64() * v.Quantity.InexactFloat64()
	rate := v.Rate.InexactFloat64()
	return fmt.Sprintf("💰 **%s %s**\n= `$%s`\n= `฿%s` (Rate: %.2f)",
		formatQuantity(v.Quantity), v.Symbol,
		FormatAmount(native), FormatAmount(native*rate), rate)
}

func formatQuantity(q decimal.Decimal) string {
	f, _ := q.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Value prices quantity units of symbol and converts the total with the
// rate quoted for conversionSymbol. Both are fetched in one batch.
func Value(ctx context.Context, provider QuoteProvider, symbol string, quantity float64, conversionSymbol string) (Valuation, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return Valuation{}, err
	}
	symbol = NormalizeSymbol(symbol)
	if !finite(quantity) {
		return Valuation{}, fmt.Errorf("invalid quantity %v", quantity)
	}
	if conversionSymbol == "" {
		conversionSymbol = DefaultConversionSymbol
	}

	batch, err := provider.FetchQuotes(ctx, []string{symbol, conversionSymbol})
	if err != nil {
		return Valuation{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	price, ok := FirstPresent(batch[symbol], ValuationFields...)
	if !ok || !finite(price) {
		return Valuation{}, fmt.Errorf("%s: %w", symbol, ErrPriceUnavailable)
	}
	rate, ok := FirstPresent(batch[conversionSymbol], RateFields...)
	if !ok || !finite(rate) {
		return Valuation{}, fmt.Errorf("%s: %w", conversionSymbol, ErrPriceUnavailable)
	}

	qty := decimal.NewFromFloat(quantity)
	p := decimal.NewFromFloat(price)
	r := decimal.NewFromFloat(rate)
	native := p.Mul(qty)
	return Valuation{
		Symbol:    symbol,
		Quantity:  qty,
		Price:     p,
		Rate:      r,
		Native:    native,
		Converted: native.Mul(r),
	}, nil
}
