package display

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/dyike/marketwatch/internal/bot"
	"github.com/dyike/marketwatch/pkg/market"
)

// Console is a bot.Replier for one-shot CLI commands. Provisional messages
// are printed as they arrive; edits print the replacement and deletes are
// no-ops.
type Console struct {
	mu       sync.Mutex
	out      io.Writer
	renderer *ReportRenderer
	next     int
}

var _ bot.Replier = (*Console)(nil)

func NewConsole(out io.Writer) *Console {
	return &Console{out: out, renderer: NewReportRenderer(out)}
}

func (c *Console) Typing(context.Context) error { return nil }

func (c *Console) Reply(_ context.Context, text string) (bot.MessageRef, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	_, err := fmt.Fprintln(c.out, c.renderer.Plain(text))
	return bot.MessageRef{ChannelID: "console", ID: strconv.Itoa(c.next)}, err
}

func (c *Console) ReplyReport(_ context.Context, report market.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderer.Render(report)
}

func (c *Console) Edit(_ context.Context, _ bot.MessageRef, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, c.renderer.Plain(text))
	return err
}

func (c *Console) Delete(context.Context, bot.MessageRef) error { return nil }
