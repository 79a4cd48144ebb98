package market

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatLine_PreviousCloseOnly(t *testing.T) {
	reg := DefaultRegistry()
	batch := Batch{"NVDA": {Symbol: "NVDA", RegularMarketPrice: Float(110), PreviousClose: Float(100)}}

	res := FormatLine(reg, batch, "NVDA")
	require.Equal(t, LineOK, res.Status)
	require.InDelta(t, 10.0, res.Change, 1e-9)
	require.Equal(t, Up, res.Direction)
	require.Equal(t, "🟢 **NVDA**: `$110.00` (+10.00%)", res.Text())
}

func TestFormatLine_NonPositivePreviousCloseIsFlat(t *testing.T) {
	reg := DefaultRegistry()
	cases := map[string]QuoteRecord{
		"missing":  {RegularMarketPrice: Float(50)},
		"zero":     {RegularMarketPrice: Float(50), PreviousClose: Float(0)},
		"negative": {RegularMarketPrice: Float(50), RegularMarketPreviousClose: Float(-3)},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			res := FormatLine(reg, Batch{"AAPL": rec}, "AAPL")
			require.Equal(t, LineOK, res.Status)
			require.Equal(t, 0.0, res.Change)
			require.Equal(t, Flat, res.Direction)
			require.Contains(t, res.Text(), "⚪")
			require.Contains(t, res.Text(), "(+0.00%)")
		})
	}
}

func TestFormatLine_Down(t *testing.T) {
	res := FormatLine(DefaultRegistry(), Batch{"TSLA": {CurrentPrice: Float(95), PreviousClose: Float(100)}}, "TSLA")
	require.Equal(t, Down, res.Direction)
	require.Equal(t, "🔴 **TSLA**: `$95.00` (-5.00%)", res.Text())
}

func TestFormatLine_BareNumericHasNoCurrencyPrefix(t *testing.T) {
	reg := DefaultRegistry()
	batch := Batch{
		"^TNX": {RegularMarketPrice: Float(4.25), PreviousClose: Float(4.2)},
		"^VIX": {RegularMarketPrice: Float(18.5)},
		"SPY":  {RegularMarketPrice: Float(512.3)},
	}
	for _, sym := range []string{"^TNX", "^VIX"} {
		require.NotContains(t, FormatLine(reg, batch, sym).Text(), "$", sym)
	}
	require.Contains(t, FormatLine(reg, batch, "SPY").Text(), "`$512.30`")
}

func TestFormatLine_ThousandsGrouping(t *testing.T) {
	res := FormatLine(DefaultRegistry(), Batch{"BTC-USD": {RegularMarketPrice: Float(67234.567), PreviousClose: Float(67234.567)}}, "BTC-USD")
	require.Equal(t, "⚪ **Bitcoin ₿**: `$67,234.57` (+0.00%)", res.Text())
}

func TestFormatLine_PriceFallbackOrder(t *testing.T) {
	reg := DefaultRegistry()
	rec := QuoteRecord{RegularMarketPrice: Float(2), LastPrice: Float(3), Ask: Float(4)}
	require.Equal(t, 2.0, FormatLine(reg, Batch{"X": rec}, "X").Price)

	rec = QuoteRecord{Ask: Float(4)}
	require.Equal(t, 4.0, FormatLine(reg, Batch{"X": rec}, "X").Price)

	rec = QuoteRecord{CurrentPrice: Float(1), RegularMarketPrice: Float(2)}
	require.Equal(t, 1.0, FormatLine(reg, Batch{"X": rec}, "X").Price)
}

func TestFormatLine_PreviousCloseFallbackOrder(t *testing.T) {
	rec := QuoteRecord{CurrentPrice: Float(110), PreviousClose: Float(100), RegularMarketPreviousClose: Float(50)}
	res := FormatLine(DefaultRegistry(), Batch{"X": rec}, "X")
	require.InDelta(t, 10.0, res.Change, 1e-9)

	rec.PreviousClose = nil
	res = FormatLine(DefaultRegistry(), Batch{"X": rec}, "X")
	require.InDelta(t, 120.0, res.Change, 1e-9)
}

func TestFormatLine_Unavailable(t *testing.T) {
	res := FormatLine(DefaultRegistry(), Batch{"GC=F": {PreviousClose: Float(2000)}}, "GC=F")
	require.Equal(t, LineUnavailable, res.Status)
	require.Equal(t, "⚠️ **Gold 🥇**: N/A (market may not be open yet / data delayed)", res.Text())
}

func TestFormatLine_ErrorsStayLocal(t *testing.T) {
	reg := DefaultRegistry()
	batch := Batch{"META": {RegularMarketPrice: Float(math.NaN())}}

	missing := FormatLine(reg, batch, "AMZN")
	require.Equal(t, LineError, missing.Status)
	require.Error(t, missing.Err)
	require.Equal(t, "❌ AMZN: Error", missing.Text())

	malformed := FormatLine(reg, batch, "META")
	require.Equal(t, LineError, malformed.Status)
	require.Equal(t, "❌ META: Error", malformed.Text())
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1.5, "1.50"},
		{999.999, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{-1234.5, "-1,234.50"},
		{1.005, "1.00"},
		{0.125, "0.12"},
		{2.675, "2.67"},
		{34.915, "34.91"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	require.Equal(t, Up, Classify(0.01))
	require.Equal(t, Down, Classify(-0.01))
	require.Equal(t, Flat, Classify(0))
	require.Equal(t, "up", Up.String())
	require.True(t, strings.HasPrefix(Down.Marker(), "🔴"))
}
