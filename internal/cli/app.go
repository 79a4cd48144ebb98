package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dyike/marketwatch/config"
	"github.com/dyike/marketwatch/internal/bot"
	"github.com/dyike/marketwatch/internal/logging"
	"github.com/dyike/marketwatch/pkg/dataflows"
	"github.com/dyike/marketwatch/pkg/market"
)

var ErrUnknownQuoteProvider = errors.New("unknown quote provider")

// app holds the components shared by the bot and the one-shot commands.
type app struct {
	cfg        *config.Config
	log        *logrus.Logger
	registry   *market.Registry
	provider   market.QuoteProvider
	builder    *market.Builder
	news       *dataflows.GoogleNewsClient
	dispatcher *bot.Dispatcher
}

func newApp(cfg *config.Config, logOut io.Writer) (*app, error) {
	log := logging.NewWithOutput(logOut, cfg.LogLevel, cfg.Debug)

	registry, err := loadWatchlist(cfg)
	if err != nil {
		return nil, err
	}

	provider, err := newQuoteProvider(cfg)
	if err != nil {
		return nil, err
	}

	news := dataflows.NewGoogleNewsClient(dataflows.GoogleNewsConfig{
		Endpoint: cfg.NewsEndpoint,
		Language: cfg.NewsLanguage,
		Country:  cfg.NewsCountry,
		Limit:    cfg.NewsLimit,
		Timeout:  cfg.HTTPTimeout,
	})

	builder := market.NewBuilder(registry, provider)
	dispatcher := bot.NewDispatcher(bot.Options{
		Prefix:           cfg.CommandPrefix,
		Builder:          builder,
		Provider:         provider,
		News:             news,
		ConversionSymbol: cfg.ConversionSymbol,
		Logger:           log,
	})

	log.WithFields(logrus.Fields{
		"provider": cfg.QuoteProvider,
		"symbols":  len(registry.Symbols()),
	}).Debug("components ready")

	return &app{
		cfg:        cfg,
		log:        log,
		registry:   registry,
		provider:   provider,
		builder:    builder,
		news:       news,
		dispatcher: dispatcher,
	}, nil
}

func newQuoteProvider(cfg *config.Config) (market.QuoteProvider, error) {
	switch cfg.QuoteProvider {
	case "", config.ProviderYahoo:
		return dataflows.NewYahooFinanceClient(), nil
	case config.ProviderLongport:
		client, err := dataflows.NewLongportClient(dataflows.LongportConfig{
			AppKey:      cfg.LongportAppKey,
			AppSecret:   cfg.LongportAppSecret,
			AccessToken: cfg.LongportAccessToken,
		})
		if err != nil {
			return nil, fmt.Errorf("longport provider: %w", err)
		}
		return client, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownQuoteProvider, cfg.QuoteProvider)
}

func loadWatchlist(cfg *config.Config) (*market.Registry, error) {
	return market.LoadRegistry(watchlistPath(cfg.WatchlistFile, config.DefaultWatchlistPath()))
}

// watchlistPath prefers the configured file, then an existing file at the
// default location. Empty means the built-in registry.
func watchlistPath(configured, fallback string) string {
	if configured != "" {
		return configured
	}
	if _, err := os.Stat(fallback); err == nil {
		return fallback
	}
	return ""
}
