package market

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ReportTitle    = "📊 Global Market Watch"
	ReportSubtitle = "*Tradable Assets & Market Health*"
	ReportFooter   = "Bot by BEERs Finance • Data by Yahoo"

	ColorDarkTheme = 0x36393F
	ColorBlue      = 0x3498DB
	ColorTeal      = 0x1ABC9C
)

// Section is one named block of pre-formatted lines.
type Section struct {
	Name  string
	Lines []string
}

// Body joins the lines the way chat fields expect them.
func (s Section) Body() string {
	return strings.Join(s.Lines, "\n")
}

// Report is a structured rich message: the market report itself, and also
// the news and guide replies which share the same shape.
type Report struct {
	Title     string
	Subtitle  string
	Footer    string
	Color     int
	Timestamp time.Time
	Sections  []Section
}

// Builder assembles market reports from one batch fetch.
type Builder struct {
	registry *Registry
	provider QuoteProvider
	now      func() time.Time
}

type BuilderOption func(*Builder)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a report builder over a registry and a provider
func NewBuilder(registry *Registry, provider QuoteProvider, opts ...BuilderOption) *Builder {
	b := &Builder{
		registry: registry,
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Registry exposes the registry the builder reads from.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Build fetches every tracked symbol in one call and renders the report.
// A failed batch fails the whole build; per-symbol problems only affect
// their own line.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	batch, err := b.provider.FetchQuotes(ctx, b.registry.Symbols())
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return b.Assemble(batch), nil
}

// Assemble renders a report from an already fetched batch.
func (b *Builder) Assemble(batch Batch) Report {
	report := Report{
		Title:     ReportTitle,
		Subtitle:  ReportSubtitle,
		Footer:    ReportFooter,
		Color:     ColorDarkTheme,
		Timestamp: b.now(),
	}

	for _, cat := range b.registry.categories {
		lines := make([]string, 0, len(cat.Symbols))
		for _, sym := range cat.Symbols {
			if line := FormatLine(b.registry, batch, sym).Text(); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		report.Sections = append(report.Sections, Section{Name: cat.Header(), Lines: lines})
	}
	return report
}
