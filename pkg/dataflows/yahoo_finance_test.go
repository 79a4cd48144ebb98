package dataflows

import (
	"context"
	"errors"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/require"
)

func TestYahooFetchQuotes_MapsZeroToMissing(t *testing.T) {
	yf := &YahooFinanceClient{list: func(symbols []string) ([]*finance.Quote, error) {
		require.Equal(t, []string{"SPY", "^VIX"}, symbols)
		spy := &finance.Quote{Symbol: "SPY"}
		spy.RegularMarketPrice = 510.25
		spy.RegularMarketPreviousClose = 505
		vix := &finance.Quote{Symbol: "^VIX"}
		vix.Ask = 17.1
		return []*finance.Quote{spy, vix, nil}, nil
	}}

	batch, err := yf.FetchQuotes(t.Context(), []string{"SPY", "^VIX"})
	require.NoError(t, err)
	require.Len(t, batch, 2)

	spy := batch["SPY"]
	require.Equal(t, 510.25, *spy.RegularMarketPrice)
	require.Equal(t, 505.0, *spy.RegularMarketPreviousClose)
	require.Nil(t, spy.Ask)
	require.Nil(t, spy.CurrentPrice)

	vix := batch["^VIX"]
	require.Nil(t, vix.RegularMarketPrice)
	require.Equal(t, 17.1, *vix.Ask)
}

func TestYahooFetchQuotes_BatchError(t *testing.T) {
	yf := &YahooFinanceClient{list: func([]string) ([]*finance.Quote, error) {
		return nil, errors.New("remote error, status code 401")
	}}
	_, err := yf.FetchQuotes(t.Context(), []string{"SPY"})
	require.ErrorContains(t, err, "401")
}

func TestYahooFetchQuotes_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	yf := &YahooFinanceClient{list: func([]string) ([]*finance.Quote, error) {
		<-release
		return nil, nil
	}}

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	_, err := yf.FetchQuotes(ctx, []string{"SPY"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestYahooFetchQuotes_Empty(t *testing.T) {
	batch, err := NewYahooFinanceClient().FetchQuotes(t.Context(), nil)
	require.NoError(t, err)
	require.Empty(t, batch)
}
