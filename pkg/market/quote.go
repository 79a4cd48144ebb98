package market

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks github.com/dyike/marketwatch/pkg/market QuoteProvider

import (
	"context"
	"errors"
	"math"
)

// ErrFetchFailed marks a failure of the whole batch call.
var ErrFetchFailed = errors.New("quote batch fetch failed")

// QuoteRecord is one provider snapshot. A nil field means the provider did
// not populate it, which is a normal outcome.
type QuoteRecord struct {
	Symbol                     string   `json:"symbol"`
	CurrentPrice               *float64 `json:"current_price,omitempty"`
	RegularMarketPrice         *float64 `json:"regular_market_price,omitempty"`
	LastPrice                  *float64 `json:"last_price,omitempty"`
	Ask                        *float64 `json:"ask,omitempty"`
	PreviousClose              *float64 `json:"previous_close,omitempty"`
	RegularMarketPreviousClose *float64 `json:"regular_market_previous_close,omitempty"`
}

// Batch holds the records of one provider call keyed by symbol.
type Batch map[string]QuoteRecord

// QuoteProvider fetches many symbols in one call.
type QuoteProvider interface {
	FetchQuotes(ctx context.Context, symbols []string) (Batch, error)
}

// Field reads one optional value from a record.
type Field func(QuoteRecord) *float64

var (
	FieldCurrentPrice               Field = func(r QuoteRecord) *float64 { return r.CurrentPrice }
	FieldRegularMarketPrice         Field = func(r QuoteRecord) *float64 { return r.RegularMarketPrice }
	FieldLastPrice                  Field = func(r QuoteRecord) *float64 { return r.LastPrice }
	FieldAsk                        Field = func(r QuoteRecord) *float64 { return r.Ask }
	FieldPreviousClose              Field = func(r QuoteRecord) *float64 { return r.PreviousClose }
	FieldRegularMarketPreviousClose Field = func(r QuoteRecord) *float64 { return r.RegularMarketPreviousClose }
)

// Resolution orders used by the formatter and by valuation.
var (
	PriceFields         = []Field{FieldCurrentPrice, FieldRegularMarketPrice, FieldLastPrice, FieldAsk}
	PreviousCloseFields = []Field{FieldPreviousClose, FieldRegularMarketPreviousClose}
	ValuationFields     = []Field{FieldCurrentPrice, FieldRegularMarketPrice, FieldLastPrice}
	RateFields          = []Field{FieldCurrentPrice, FieldRegularMarketPrice}
)

// FirstPresent returns the first non-nil value in field order.
func FirstPresent(r QuoteRecord, fields ...Field) (float64, bool) {
	for _, f := range fields {
		if v := f(r); v != nil {
			return *v, true
		}
	}
	return 0, false
}

// Float returns a pointer to v, handy for building records.
func Float(v float64) *float64 {
	return &v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
