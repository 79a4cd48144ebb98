package market

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Direction classifies a percent change.
type Direction int

const (
	Flat Direction = iota
	Up
	Down
)

// Marker is the visual indicator used in chat lines.
func (d Direction) Marker() string {
	switch d {
	case Up:
		return "🟢"
	case Down:
		return "🔴"
	default:
		return "⚪"
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "flat"
	}
}

// Classify maps the sign of change to a direction.
func Classify(change float64) Direction {
	switch {
	case change > 0:
		return Up
	case change < 0:
		return Down
	default:
		return Flat
	}
}

// LineStatus is the outcome of formatting one symbol.
type LineStatus int

const (
	LineOK LineStatus = iota
	LineUnavailable
	LineError
)

// LineResult is the per-symbol result folded into a report.
type LineResult struct {
	Symbol      string
	Name        string
	Status      LineStatus
	Price       float64
	Change      float64
	Direction   Direction
	BareNumeric bool
	Err         error
}

// Text renders the result as one chat line.
func (l LineResult) Text() string {
	switch l.Status {
	case LineUnavailable:
		return fmt.Sprintf("⚠️ **%s**: N/A (market may not be open yet / data delayed)", l.Name)
	case LineError:
		return fmt.Sprintf("❌ %s: Error", l.Symbol)
	}
	price := FormatAmount(l.Price)
	if !l.BareNumeric {
		price = "$" + price
	}
	return fmt.Sprintf("%s **%s**: `%s` (%+.2f%%)", l.Direction.Marker(), l.Name, price, l.Change)
}

// PercentChange is zero when prev is missing or not strictly positive, which
// renders the same as no change.
func PercentChange(current, prev float64, hasPrev bool) float64 {
	if !hasPrev || prev <= 0 {
		return 0.0
	}
	return (current - prev) / prev * 100
}

// FormatLine resolves one symbol of a batch. It never panics on bad data:
// missing or malformed records come back as LineError.
func FormatLine(reg *Registry, batch Batch, symbol string) LineResult {
	res := LineResult{
		Symbol:      symbol,
		Name:        reg.DisplayName(symbol),
		BareNumeric: reg.BareNumeric(symbol),
	}

	rec, ok := batch[symbol]
	if !ok {
		res.Status = LineError
		res.Err = fmt.Errorf("no data returned for %s", symbol)
		return res
	}

	price, ok := FirstPresent(rec, PriceFields...)
	if !ok {
		res.Status = LineUnavailable
		return res
	}
	if !finite(price) {
		res.Status = LineError
		res.Err = fmt.Errorf("malformed price for %s", symbol)
		return res
	}

	prev, hasPrev := FirstPresent(rec, PreviousCloseFields...)
	if !finite(prev) {
		res.Status = LineError
		res.Err = fmt.Errorf("malformed previous close for %s", symbol)
		return res
	}

	res.Status = LineOK
	res.Price = price
	res.Change = PercentChange(price, prev, hasPrev)
	res.Direction = Classify(res.Change)
	return res
}

// FormatAmount renders v with thousands grouping and two decimals. The
// binary value is rounded, as %.2f does.
func FormatAmount(v float64) string {
	fixed := strconv.FormatFloat(v, 'f', 2, 64)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + fixed
	}
	return sign + humanize.Comma(n) + "." + frac
}
