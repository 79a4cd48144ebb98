// Package bot routes prefixed chat commands to the market report pipeline
// and its ancillary lookups.
package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dyike/marketwatch/pkg/dataflows"
	"github.com/dyike/marketwatch/pkg/market"
)

const DefaultNewsTopic = "Stock Market"

// Message is an inbound chat message, already stripped of platform detail.
type Message struct {
	ChannelID   string
	AuthorID    string
	AuthorIsBot bool
	Content     string
}

// MessageRef identifies a message the bot posted so it can be edited or deleted.
type MessageRef struct {
	ChannelID string
	ID        string
}

// Replier is the per-message reply surface.
type Replier interface {
	Typing(ctx context.Context) error
	Reply(ctx context.Context, text string) (MessageRef, error)
	ReplyReport(ctx context.Context, report market.Report) error
	Edit(ctx context.Context, ref MessageRef, text string) error
	Delete(ctx context.Context, ref MessageRef) error
}

// ReportBuilder produces a fresh market report.
type ReportBuilder interface {
	Build(ctx context.Context) (market.Report, error)
}

// NewsSource searches headlines for a topic.
type NewsSource interface {
	Search(ctx context.Context, topic string) ([]dataflows.NewsItem, error)
}

type Options struct {
	Prefix           string
	Builder          ReportBuilder
	Provider         market.QuoteProvider
	News             NewsSource
	ConversionSymbol string
	Logger           logrus.FieldLogger
	Now              func() time.Time
}

type handlerFunc func(ctx context.Context, args []string, r Replier) error

type command struct {
	usage   string
	summary string
	run     handlerFunc
}

// Dispatcher maps command names to handlers. It holds no per-message state.
type Dispatcher struct {
	opts     Options
	commands map[string]command
	aliases  map[string]string
}

func NewDispatcher(opts Options) *Dispatcher {
	if opts.Prefix == "" {
		opts.Prefix = "!"
	}
	if opts.ConversionSymbol == "" {
		opts.ConversionSymbol = market.DefaultConversionSymbol
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	d := &Dispatcher{opts: opts, aliases: map[string]string{"report": "angel", "market": "angel"}}
	d.commands = map[string]command{
		"angel": {usage: "angel", summary: "Market report right now", run: d.handleReport},
		"cal":   {usage: "cal SYMBOL AMOUNT", summary: "Value a position in USD and THB", run: d.handleValuation},
		"news":  {usage: "news [topic]", summary: "Latest Google News headlines", run: d.handleNews},
		"guide": {usage: "guide", summary: "What each symbol means", run: d.handleGuide},
		"help":  {usage: "help", summary: "This list", run: d.handleHelp},
	}
	return d
}

// Parse splits content into a command name and its arguments. ok is false
// when content does not start with the prefix or names no command.
func (d *Dispatcher) Parse(content string) (name string, args []string, ok bool) {
	if !strings.HasPrefix(content, d.opts.Prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, d.opts.Prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	name = fields[0]
	if target, found := d.aliases[name]; found {
		name = target
	}
	if _, found := d.commands[name]; !found {
		return "", nil, false
	}
	return name, fields[1:], true
}

// Handle runs the command in msg, if any. Messages from bots and unknown
// commands are ignored. The returned error covers reply delivery only;
// command failures are reported to the user.
func (d *Dispatcher) Handle(ctx context.Context, msg Message, r Replier) error {
	if msg.AuthorIsBot {
		return nil
	}
	name, args, ok := d.Parse(msg.Content)
	if !ok {
		return nil
	}

	log := d.opts.Logger.WithFields(logrus.Fields{
		"command":    name,
		"channel":    msg.ChannelID,
		"request_id": uuid.NewString(),
	})
	log.Debug("handling command")

	if err := d.commands[name].run(ctx, args, r); err != nil {
		log.WithError(err).Warn("reply failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (d *Dispatcher) handleReport(ctx context.Context, _ []string, r Replier) error {
	if err := r.Typing(ctx); err != nil {
		d.opts.Logger.WithError(err).Debug("typing indicator failed")
	}
	report, err := d.opts.Builder.Build(ctx)
	if err != nil {
		d.opts.Logger.WithError(err).Error("market report failed")
		_, err = r.Reply(ctx, "❌ Failed to fetch market data, please try again.")
		return err
	}
	return r.ReplyReport(ctx, report)
}

func (d *Dispatcher) handleValuation(ctx context.Context, args []string, r Replier) error {
	if len(args) < 2 {
		_, err := r.Reply(ctx, fmt.Sprintf("Usage: `%scal SYMBOL AMOUNT` (e.g. `%scal NVDA 10`)", d.opts.Prefix, d.opts.Prefix))
		return err
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		_, err = r.Reply(ctx, fmt.Sprintf("❌ Error: invalid amount %q", args[1]))
		return err
	}

	v, err := market.Value(ctx, d.opts.Provider, args[0], amount, d.opts.ConversionSymbol)
	switch {
	case errors.Is(err, market.ErrPriceUnavailable):
		_, err = r.Reply(ctx, "❌ Price data not found.")
		return err
	case err != nil:
		_, err = r.Reply(ctx, fmt.Sprintf("❌ Error: %v", err))
		return err
	}
	_, err = r.Reply(ctx, v.Text())
	return err
}

func (d *Dispatcher) handleNews(ctx context.Context, args []string, r Replier) error {
	topic := strings.Join(args, " ")
	if topic == "" {
		topic = DefaultNewsTopic
	}
	label := strings.ToUpper(topic)

	ack, err := r.Reply(ctx, fmt.Sprintf("🔄 Fetching latest news for **%s**...", label))
	if err != nil {
		return err
	}

	items, err := d.opts.News.Search(ctx, topic)
	if err != nil {
		d.opts.Logger.WithError(err).WithField("topic", topic).Warn("news search failed")
		return r.Edit(ctx, ack, fmt.Sprintf("❌ Error: %v", err))
	}
	if len(items) == 0 {
		return r.Edit(ctx, ack, fmt.Sprintf("❌ No news found for %s.", topic))
	}

	if err := r.Delete(ctx, ack); err != nil {
		d.opts.Logger.WithError(err).Debug("could not delete acknowledgement")
	}
	return r.ReplyReport(ctx, NewsReport(label, items, d.opts.Now()))
}

// NewsReport renders headlines as one section per item.
func NewsReport(label string, items []dataflows.NewsItem, now time.Time) market.Report {
	report := market.Report{
		Title:     "📰 Google News: " + label,
		Subtitle:  "Latest headlines",
		Color:     market.ColorBlue,
		Timestamp: now,
	}
	for _, it := range items {
		var lines []string
		if it.Published != nil {
			lines = append(lines, fmt.Sprintf("• <t:%d:R>", it.Published.Unix()))
		}
		lines = append(lines, fmt.Sprintf("[👉 Read full article](%s)", it.Link))
		report.Sections = append(report.Sections, market.Section{Name: "🔹 " + it.Title, Lines: lines})
	}
	return report
}

func (d *Dispatcher) handleGuide(ctx context.Context, _ []string, r Replier) error {
	return r.ReplyReport(ctx, GuideReport(d.opts.Now()))
}

func (d *Dispatcher) handleHelp(ctx context.Context, _ []string, r Replier) error {
	names := make([]string, 0, len(d.commands))
	for name := range d.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("**Commands**\n")
	for _, name := range names {
		c := d.commands[name]
		fmt.Fprintf(&b, "`%s%s` %s\n", d.opts.Prefix, c.usage, c.summary)
	}
	_, err := r.Reply(ctx, strings.TrimRight(b.String(), "\n"))
	return err
}
