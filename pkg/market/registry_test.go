package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	cats := reg.Categories()
	require.Len(t, cats, 4)
	require.Equal(t, "🌎 Market ETFs (Tradeable)", cats[0].Header())
	require.Equal(t, []string{"^TNX", "^VIX"}, cats[1].Symbols)

	syms := reg.Symbols()
	require.Len(t, syms, 17)
	require.Equal(t, "SPY", syms[0])
	require.Equal(t, "USDTHB=X", syms[len(syms)-1])

	require.Equal(t, "US 10Y Bond 🏦", reg.DisplayName("^TNX"))
	require.Equal(t, "NVDA", reg.DisplayName("NVDA"))
	require.True(t, reg.BareNumeric("^VIX"))
	require.False(t, reg.BareNumeric("GC=F"))
}

func TestNewRegistry_RejectsDuplicateSymbols(t *testing.T) {
	_, err := NewRegistry([]Category{
		{Key: "a", Symbols: []string{"SPY"}},
		{Key: "b", Symbols: []string{"QQQ", "SPY"}},
	}, nil, nil)
	require.ErrorContains(t, err, "SPY")
}

func TestNewRegistry_RejectsEmptySymbol(t *testing.T) {
	_, err := NewRegistry([]Category{{Key: "a", Symbols: []string{" "}}}, nil, nil)
	require.Error(t, err)
}

func TestCategoriesReturnsCopy(t *testing.T) {
	reg := DefaultRegistry()
	cats := reg.Categories()
	cats[0].Symbols[0] = "MUTATED"
	require.Equal(t, "SPY", reg.Symbols()[0])
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watchlist.yaml")
	doc := `
categories:
  - key: idx
    title: Indices
    icon: "📈"
    symbols: [SPY, "^VIX"]
  - key: empty
    title: Nothing
names:
  SPY: S&P 500
bare_numeric: ["^VIX"]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	require.Equal(t, []string{"SPY", "^VIX"}, reg.Symbols())
	require.Equal(t, "S&P 500", reg.DisplayName("SPY"))
	require.True(t, reg.BareNumeric("^VIX"))

	def, err := LoadRegistry("")
	require.NoError(t, err)
	require.Len(t, def.Symbols(), 17)

	_, err = LoadRegistry(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = ParseRegistry([]byte("names: {}"))
	require.Error(t, err)
}

func TestValidateSymbol(t *testing.T) {
	require.NoError(t, ValidateSymbol(" nvda "))
	require.Error(t, ValidateSymbol(""))
	require.Error(t, ValidateSymbol("ABCDEFGHIJKLMNOPQ"))
	require.Equal(t, "NVDA", NormalizeSymbol(" nvda "))
}
