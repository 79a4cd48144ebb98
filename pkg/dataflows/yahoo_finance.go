package dataflows

import (
	"context"
	"fmt"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"

	"github.com/dyike/marketwatch/pkg/market"
)

// YahooFinanceClient fetches quote batches from Yahoo Finance
type YahooFinanceClient struct {
	list func(symbols []string) ([]*finance.Quote, error)
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient() *YahooFinanceClient {
	return &YahooFinanceClient{list: listQuotes}
}

func listQuotes(symbols []string) ([]*finance.Quote, error) {
	iter := quote.List(symbols)
	var out []*finance.Quote
	for iter.Next() {
		out = append(out, iter.Quote())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchQuotes gets all symbols in a single request. finance-go has no
// context support, so the call runs in its own goroutine and is abandoned
// if ctx ends first.
func (yf *YahooFinanceClient) FetchQuotes(ctx context.Context, symbols []string) (market.Batch, error) {
	if len(symbols) == 0 {
		return market.Batch{}, nil
	}

	type result struct {
		quotes []*finance.Quote
		err    error
	}
	done := make(chan result, 1)
	go func() {
		q, err := yf.list(symbols)
		done <- result{quotes: q, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("failed to get quotes for %d symbols: %w", len(symbols), res.err)
		}
		batch := make(market.Batch, len(res.quotes))
		for _, q := range res.quotes {
			if q == nil || q.Symbol == "" {
				continue
			}
			batch[q.Symbol] = recordFromYahoo(q)
		}
		return batch, nil
	}
}

// recordFromYahoo maps a Yahoo quote. finance-go decodes absent fields as
// zero, so zero is treated as "not populated".
func recordFromYahoo(q *finance.Quote) market.QuoteRecord {
	return market.QuoteRecord{
		Symbol:                     q.Symbol,
		RegularMarketPrice:         nonZero(q.RegularMarketPrice),
		Ask:                        nonZero(q.Ask),
		RegularMarketPreviousClose: nonZero(q.RegularMarketPreviousClose),
	}
}

func nonZero(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}
