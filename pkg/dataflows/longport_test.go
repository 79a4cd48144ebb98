package dataflows

import (
	"context"
	"os"
	"testing"

	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRecordFromLongport(t *testing.T) {
	last := decimal.RequireFromString("388.20")
	prev := decimal.Zero
	rec := recordFromLongport(&quote.SecurityQuote{Symbol: "700.HK", LastDone: &last, PrevClose: &prev})

	require.Equal(t, "700.HK", rec.Symbol)
	require.NotNil(t, rec.LastPrice)
	require.InDelta(t, 388.20, *rec.LastPrice, 1e-9)
	require.Nil(t, rec.PreviousClose)
	require.Nil(t, rec.RegularMarketPrice)
}

func TestNewLongportClient_MissingCredentials(t *testing.T) {
	_, err := NewLongportClient(LongportConfig{AppKey: "k"})
	require.Error(t, err)
}

func TestLongportClient_FetchQuotes(t *testing.T) {
	cfg := LongportConfig{
		AppKey:      os.Getenv("LONGPORT_APP_KEY"),
		AppSecret:   os.Getenv("LONGPORT_APP_SECRET"),
		AccessToken: os.Getenv("LONGPORT_ACCESS_TOKEN"),
	}

	client, err := NewLongportClient(cfg)
	if err != nil {
		t.Skipf("Skipping test due to missing Longport API credentials: %v", err)
	}

	symbols := []string{"700.HK", "AAPL.US"}
	batch, err := client.FetchQuotes(context.Background(), symbols)
	if err != nil {
		t.Fatalf("FetchQuotes failed: %v", err)
	}
	for sym, rec := range batch {
		t.Logf("Symbol: %s last=%v prev=%v", sym, rec.LastPrice, rec.PreviousClose)
	}
}
