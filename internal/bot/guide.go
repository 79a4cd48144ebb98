package bot

import (
	"time"

	"github.com/dyike/marketwatch/pkg/market"
)

var guideSections = []market.Section{
	{
		Name: "🌎 Market ETFs (The Benchmark)",
		Lines: []string{
			"**• SPY (S&P 500):** The top 500 US companies. Represents the **overall US economy**.",
			"**• QQQ (Nasdaq 100):** Top 100 non-financial tech companies. **High growth, high volatility**.",
			"**• TDEX (Thai SET50):** The top 50 companies in Thailand.",
		},
	},
	{
		Name: "🏥 Market Health Indicators (Watch Closely!)",
		Lines: []string{
			"**• US 10Y Bond (^TNX):** The 'Risk-Free Rate'.",
			"👉 *Rule:* If Yield **UP** 📈 = Tech Stocks **DOWN** 📉 (Investors sell risky stocks for safe bonds).",
			"",
			"**• VIX Index (^VIX):** The 'Fear Gauge'.",
			"👉 *Rule:* Below 20 = **Calm** 😎 | Above 30 = **Panic/Crash** 😱",
		},
	},
	{
		Name: "🏆 Commodities & Assets",
		Lines: []string{
			"**• Gold (GC=F):** Safe Haven. Moves up when people are scared or inflation is high.",
			"**• Crude Oil (CL=F):** Energy costs. High oil price = High inflation.",
			"**• Bitcoin (BTC):** 'Digital Gold'. Represents risk-on appetite.",
		},
	},
}

// GuideReport is the static symbol cheat sheet.
func GuideReport(now time.Time) market.Report {
	sections := make([]market.Section, len(guideSections))
	copy(sections, guideSections)
	return market.Report{
		Title:     "📚 Market Cheat Sheet",
		Subtitle:  "*Understanding symbols & indicators*",
		Footer:    "Tip: Check ^TNX before buying Tech stocks!",
		Color:     market.ColorTeal,
		Timestamp: now,
		Sections:  sections,
	}
}
