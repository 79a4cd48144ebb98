// Package discord connects the command dispatcher and the scheduler to a
// Discord gateway session.
package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/dyike/marketwatch/internal/bot"
	"github.com/dyike/marketwatch/internal/scheduler"
	"github.com/dyike/marketwatch/pkg/market"
)

// Intents needed to read prefixed commands in guilds and DMs.
const Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

// restAPI is the subset of *discordgo.Session used for replies.
type restAPI interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEdit(channelID, messageID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Handler receives every inbound message.
type Handler interface {
	Handle(ctx context.Context, msg bot.Message, r bot.Replier) error
}

type Config struct {
	Token    string
	Presence string
}

// Bot owns the gateway session. It implements scheduler.Destination.
type Bot struct {
	session *discordgo.Session
	api     restAPI
	handler Handler
	cfg     Config
	log     logrus.FieldLogger

	ready     chan struct{}
	readyOnce sync.Once

	mu      sync.RWMutex
	baseCtx context.Context
}

var _ scheduler.Destination = (*Bot)(nil)

func New(cfg Config, handler Handler, log logrus.FieldLogger) (*Bot, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = Intents

	b := newBot(session, handler, cfg, log)
	b.session = session
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessageCreate)
	return b, nil
}

func newBot(api restAPI, handler Handler, cfg Config, log logrus.FieldLogger) *Bot {
	return &Bot{
		api:     api,
		handler: handler,
		cfg:     cfg,
		log:     log,
		ready:   make(chan struct{}),
		baseCtx: context.Background(),
	}
}

// Run opens the gateway and blocks until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	b.mu.Lock()
	b.baseCtx = ctx
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	<-ctx.Done()
	if err := b.session.Close(); err != nil {
		b.log.WithError(err).Warn("closing discord session")
	}
	return nil
}

// Ready is closed after the first Ready event.
func (b *Bot) Ready() <-chan struct{} {
	return b.ready
}

// Resolve finds a channel in the state cache, falling back to the REST API.
func (b *Bot) Resolve(ctx context.Context, channelID string) (scheduler.ReportSender, error) {
	if b.session != nil && b.session.State != nil {
		if ch, err := b.session.State.Channel(channelID); err == nil {
			return &channelSender{api: b.api, channelID: ch.ID}, nil
		}
	}
	ch, err := b.api.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, err)
	}
	return &channelSender{api: b.api, channelID: ch.ID}, nil
}

func (b *Bot) context() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.baseCtx
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	name := ""
	if r.User != nil {
		name = r.User.String()
	}
	b.log.Infof("💰 Finance Bot Online: %s", name)

	if err := s.UpdateWatchStatus(0, b.cfg.Presence); err != nil {
		b.log.WithError(err).Warn("could not set presence")
	}
	b.readyOnce.Do(func() { close(b.ready) })
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	isBot := m.Author.Bot
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		isBot = true
	}
	b.dispatch(bot.Message{
		ChannelID:   m.ChannelID,
		AuthorID:    m.Author.ID,
		AuthorIsBot: isBot,
		Content:     m.Content,
	})
}

func (b *Bot) dispatch(msg bot.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			b.log.WithFields(logrus.Fields{
				"channel": msg.ChannelID,
				"panic":   rec,
			}).Error("command panicked")
		}
	}()

	ctx := b.context()
	r := &replier{api: b.api, channelID: msg.ChannelID}
	if err := b.handler.Handle(ctx, msg, r); err != nil {
		b.log.WithError(err).WithField("channel", msg.ChannelID).Error("command failed")
	}
}

type channelSender struct {
	api       restAPI
	channelID string
}

func (c *channelSender) SendReport(ctx context.Context, report market.Report) error {
	_, err := c.api.ChannelMessageSendEmbed(c.channelID, Embed(report), discordgo.WithContext(ctx))
	return err
}

// replier answers in the channel a command came from.
type replier struct {
	api       restAPI
	channelID string
}

func (r *replier) Typing(ctx context.Context) error {
	return r.api.ChannelTyping(r.channelID, discordgo.WithContext(ctx))
}

func (r *replier) Reply(ctx context.Context, text string) (bot.MessageRef, error) {
	m, err := r.api.ChannelMessageSend(r.channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return bot.MessageRef{}, err
	}
	return bot.MessageRef{ChannelID: m.ChannelID, ID: m.ID}, nil
}

func (r *replier) ReplyReport(ctx context.Context, report market.Report) error {
	_, err := r.api.ChannelMessageSendEmbed(r.channelID, Embed(report), discordgo.WithContext(ctx))
	return err
}

func (r *replier) Edit(ctx context.Context, ref bot.MessageRef, text string) error {
	_, err := r.api.ChannelMessageEdit(ref.ChannelID, ref.ID, text, discordgo.WithContext(ctx))
	return err
}

func (r *replier) Delete(ctx context.Context, ref bot.MessageRef) error {
	return r.api.ChannelMessageDelete(ref.ChannelID, ref.ID, discordgo.WithContext(ctx))
}
