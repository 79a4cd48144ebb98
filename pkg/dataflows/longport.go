package dataflows

import (
	"context"
	"errors"
	"fmt"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/dyike/marketwatch/pkg/market"
)

type LongportConfig struct {
	AppKey      string
	AppSecret   string
	AccessToken string
}

// LongportClient is an alternative quote source backed by the Longport
// OpenAPI quote context.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportClient(cfg LongportConfig) (*LongportClient, error) {
	if cfg.AppKey == "" || cfg.AppSecret == "" || cfg.AccessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.AppKey, cfg.AppSecret, cfg.AccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

func (lpc *LongportClient) FetchQuotes(ctx context.Context, symbols []string) (market.Batch, error) {
	if lpc.quoteCtx == nil {
		return nil, errors.New("quote context is nil")
	}
	quotes, err := lpc.quoteCtx.Quote(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("longport quote: %w", err)
	}
	batch := make(market.Batch, len(quotes))
	for _, q := range quotes {
		if q == nil {
			continue
		}
		batch[q.Symbol] = recordFromLongport(q)
	}
	return batch, nil
}

func recordFromLongport(q *quote.SecurityQuote) market.QuoteRecord {
	return market.QuoteRecord{
		Symbol:        q.Symbol,
		LastPrice:     decimalValue(q.LastDone),
		PreviousClose: decimalValue(q.PrevClose),
	}
}

func decimalValue(d *decimal.Decimal) *float64 {
	if d == nil || d.IsZero() {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}
