package market

import (
	"fmt"
	"strings"
)

// Category groups symbols under one report section
type Category struct {
	Key     string   `yaml:"key"`
	Title   string   `yaml:"title"`
	Icon    string   `yaml:"icon"`
	Symbols []string `yaml:"symbols"`
}

// Header returns the section label shown in a report
func (c Category) Header() string {
	if c.Icon == "" {
		return c.Title
	}
	return c.Icon + " " + c.Title
}

// Registry is the static, ordered set of tracked symbols. It is read-only
// after construction and safe for concurrent use.
type Registry struct {
	categories []Category
	names      map[string]string
	bare       map[string]bool
}

// NewRegistry validates that every symbol belongs to exactly one category.
func NewRegistry(categories []Category, names map[string]string, bareNumeric []string) (*Registry, error) {
	seen := make(map[string]string)
	cats := make([]Category, 0, len(categories))
	for _, c := range categories {
		if strings.TrimSpace(c.Key) == "" {
			return nil, fmt.Errorf("category key cannot be empty")
		}
		symbols := make([]string, 0, len(c.Symbols))
		for _, s := range c.Symbols {
			s = strings.TrimSpace(s)
			if s == "" {
				return nil, fmt.Errorf("category %s: empty symbol", c.Key)
			}
			if owner, dup := seen[s]; dup {
				return nil, fmt.Errorf("symbol %s listed in both %s and %s", s, owner, c.Key)
			}
			seen[s] = c.Key
			symbols = append(symbols, s)
		}
		c.Symbols = symbols
		cats = append(cats, c)
	}

	r := &Registry{
		categories: cats,
		names:      make(map[string]string, len(names)),
		bare:       make(map[string]bool, len(bareNumeric)),
	}
	for k, v := range names {
		r.names[k] = v
	}
	for _, s := range bareNumeric {
		r.bare[strings.TrimSpace(s)] = true
	}
	return r, nil
}

// Categories returns a copy of the categories in registry order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		c.Symbols = append([]string(nil), c.Symbols...)
		out[i] = c
	}
	return out
}

// Symbols flattens all categories in order, for a single batch fetch.
func (r *Registry) Symbols() []string {
	var out []string
	for _, c := range r.categories {
		out = append(out, c.Symbols...)
	}
	return out
}

// DisplayName falls back to the raw symbol when no name is mapped.
func (r *Registry) DisplayName(symbol string) string {
	if name, ok := r.names[symbol]; ok && name != "" {
		return name
	}
	return symbol
}

// BareNumeric reports whether the symbol is rendered without a currency prefix.
func (r *Registry) BareNumeric(symbol string) bool {
	return r.bare[symbol]
}

var defaultCategories = []Category{
	{Key: "etf", Title: "Market ETFs (Tradeable)", Icon: "🌎", Symbols: []string{"SPY", "QQQ", "TDEX.BK"}},
	{Key: "health", Title: "Market Health (Bond & VIX)", Icon: "🏥", Symbols: []string{"^TNX", "^VIX"}},
	{Key: "tech", Title: "US Tech Giants", Icon: "🇺🇸", Symbols: []string{"NVDA", "TSLA", "AAPL", "MSFT", "AMZN", "GOOGL", "META"}},
	{Key: "others", Title: "Gold, Oil & Crypto", Icon: "🏆", Symbols: []string{"GC=F", "CL=F", "BTC-USD", "ETH-USD", "USDTHB=X"}},
}

var defaultNames = map[string]string{
	"SPY":      "S&P 500 (SPY) 🇺🇸",
	"QQQ":      "Nasdaq 100 (QQQ) 💻",
	"TDEX.BK":  "Thai SET50 (TDEX) 🇹🇭",
	"^TNX":     "US 10Y Bond 🏦",
	"^VIX":     "VIX (Fear Index) 😱",
	"GC=F":     "Gold 🥇",
	"CL=F":     "Crude Oil 🛢️",
	"BTC-USD":  "Bitcoin ₿",
	"ETH-USD":  "Ethereum 💎",
	"USDTHB=X": "USD/THB 🇹🇭",
}

var defaultBareNumeric = []string{"^TNX", "^VIX"}

// DefaultRegistry returns the built-in watchlist.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultCategories, defaultNames, defaultBareNumeric)
	if err != nil {
		panic(fmt.Sprintf("market: invalid default registry: %v", err))
	}
	return r
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// ValidateSymbol checks if a ticker symbol is valid format
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 16 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}
