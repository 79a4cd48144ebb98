package display

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dyike/marketwatch/pkg/market"
)

var (
	subtitleStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#9CA3AF"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	relativeTime = regexp.MustCompile(`<t:(-?\d+):R>`)
	mdLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// ReportRenderer prints reports to a terminal.
type ReportRenderer struct {
	out io.Writer
	now func() time.Time
}

// NewReportRenderer creates a renderer writing to out
func NewReportRenderer(out io.Writer) *ReportRenderer {
	return &ReportRenderer{out: out, now: time.Now}
}

// Render draws one report inside a border tinted with the report color.
func (d *ReportRenderer) Render(r market.Report) error {
	_, err := fmt.Fprintln(d.out, d.String(r))
	return err
}

// String returns the rendered report.
func (d *ReportRenderer) String(r market.Report) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(hexColor(r.Color)))

	var parts []string
	parts = append(parts, titleStyle.Render(r.Title))
	if r.Subtitle != "" {
		parts = append(parts, subtitleStyle.Render(d.Plain(r.Subtitle)))
	}
	for _, s := range r.Sections {
		parts = append(parts, "", sectionStyle.Render(d.Plain(s.Name)))
		for _, line := range s.Lines {
			parts = append(parts, d.Plain(line))
		}
	}

	footer := r.Footer
	if !r.Timestamp.IsZero() {
		stamp := r.Timestamp.Format("2006-01-02 15:04:05")
		if footer != "" {
			footer += " • " + stamp
		} else {
			footer = stamp
		}
	}
	if footer != "" {
		parts = append(parts, "", footerStyle.Render(footer))
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(hexColor(r.Color))).
		Padding(1, 2)
	return box.Render(strings.Join(parts, "\n"))
}

// Plain turns chat markup into terminal text: emphasis and code markers are
// dropped, links print their target, relative timestamps are humanized.
func (d *ReportRenderer) Plain(s string) string {
	s = relativeTime.ReplaceAllStringFunc(s, func(m string) string {
		sec, err := strconv.ParseInt(relativeTime.FindStringSubmatch(m)[1], 10, 64)
		if err != nil {
			return m
		}
		return humanize.RelTime(time.Unix(sec, 0), d.now(), "ago", "from now")
	})
	s = mdLink.ReplaceAllString(s, "$1: $2")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	if len(s) > 1 && strings.HasPrefix(s, "*") && strings.HasSuffix(s, "*") {
		s = s[1 : len(s)-1]
	}
	return s
}

func hexColor(c int) string {
	return fmt.Sprintf("#%06X", c&0xFFFFFF)
}
