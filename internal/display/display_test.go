package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dyike/marketwatch/internal/bot"
	"github.com/dyike/marketwatch/pkg/market"
)

func TestPlain(t *testing.T) {
	now := time.Unix(1767225600, 0)
	d := &ReportRenderer{now: func() time.Time { return now }}

	tests := []struct {
		in   string
		want string
	}{
		{"🟢 **NVDA**: `$100.00` (+1.00%)", "🟢 NVDA: $100.00 (+1.00%)"},
		{"*Tradable Assets & Market Health*", "Tradable Assets & Market Health"},
		{"[👉 Read full article](https://example.com/a)", "👉 Read full article: https://example.com/a"},
		{"• <t:1767218400:R>", "• 2 hours ago"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, d.Plain(tt.in))
		})
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	r := NewReportRenderer(&buf)

	err := r.Render(market.Report{
		Title:     market.ReportTitle,
		Subtitle:  market.ReportSubtitle,
		Footer:    market.ReportFooter,
		Color:     market.ColorDarkTheme,
		Timestamp: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Sections: []market.Section{
			{Name: "🌎 Market ETFs (Tradeable)", Lines: []string{"🟢 **S&P 500**: `$500.00` (+1.01%)"}},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "Global Market Watch")
	require.Contains(t, out, "S&P 500: $500.00 (+1.01%)")
	require.Contains(t, out, "2026-03-02 09:00:00")
	require.NotContains(t, out, "**")
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	ctx := t.Context()

	ref, err := c.Reply(ctx, "🔄 Fetching latest news for **AAPL**...")
	require.NoError(t, err)
	require.Equal(t, bot.MessageRef{ChannelID: "console", ID: "1"}, ref)
	require.NoError(t, c.Edit(ctx, ref, "❌ No news found for aapl."))
	require.NoError(t, c.Delete(ctx, ref))
	require.NoError(t, c.Typing(ctx))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, []string{"🔄 Fetching latest news for AAPL...", "❌ No news found for aapl."}, lines)
}

func TestHexColor(t *testing.T) {
	require.Equal(t, "#36393F", hexColor(market.ColorDarkTheme))
	require.Equal(t, "#1ABC9C", hexColor(market.ColorTeal))
}
