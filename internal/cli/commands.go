package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dyike/marketwatch/config"
	"github.com/dyike/marketwatch/internal/bot"
	"github.com/dyike/marketwatch/internal/discord"
	"github.com/dyike/marketwatch/internal/display"
	"github.com/dyike/marketwatch/internal/scheduler"
)

const version = "v1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Initialize configuration early
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "marketwatch",
		Short: "marketwatch - Discord market report bot",
		Long: `marketwatch posts a categorized market report to a Discord channel on a
fixed interval and answers chat commands for reports, valuations, news and a
symbol cheat sheet. The same commands can be run once from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyFlags(cmd, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: run the bot
			return runBot(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newReportCmd(cfg))
	rootCmd.AddCommand(newNewsCmd(cfg))
	rootCmd.AddCommand(newCalCmd(cfg))
	rootCmd.AddCommand(newGuideCmd(cfg))
	rootCmd.AddCommand(newInitCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("watchlist", "", "YAML watchlist file replacing the built-in symbols")
	rootCmd.PersistentFlags().String("provider", "", "Quote provider (yahoo, longport)")

	return rootCmd
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetString("watchlist"); v != "" {
		cfg.WatchlistFile = v
	}
	if v, _ := flags.GetString("provider"); v != "" {
		cfg.QuoteProvider = strings.ToLower(v)
	}
	return nil
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and post reports on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), cfg)
		},
	}
}

func newReportCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the market report once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, cfg, "angel")
		},
	}
}

func newNewsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "news [TOPIC...]",
		Short: "Print the latest Google News headlines for a topic",
		Long: `Print up to five of the most recent headlines for a topic.
Example: marketwatch news nvidia`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, cfg, "news", args...)
		},
	}
}

func newCalCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "cal SYMBOL AMOUNT",
		Short: "Value a position in USD and the conversion currency",
		Long: `Multiply the current price of SYMBOL by AMOUNT and convert the total.
Example: marketwatch cal NVDA 10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, cfg, "cal", args...)
		},
	}
}

func newGuideCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Print the symbol cheat sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, cfg, "guide")
		},
	}
}

func newInitCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively write a .env file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("env-file")
			values, err := PromptForSettings(cfg)
			if err != nil {
				return err
			}
			if err := config.WriteEnvFile(path, values); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Settings written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("env-file", ".env", "dotenv file to create or update")
	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "marketwatch %s\n", version)
			fmt.Fprintln(cmd.OutOrStdout(), "Discord market report bot")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect and validate marketwatch configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cmd.OutOrStdout(), cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd.OutOrStdout(), cfg)
		},
	})

	return configCmd
}

// runBot connects to Discord and runs the scheduler until SIGINT or SIGTERM.
func runBot(parent context.Context, cfg *config.Config) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := discord.New(discord.Config{Token: cfg.DiscordToken, Presence: cfg.Presence}, a.dispatcher, a.log)
	if err != nil {
		return err
	}

	sched := scheduler.New(cfg.ReportInterval, cfg.ChannelID, session, a.builder, a.log)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"channel":  cfg.ChannelID,
		"interval": cfg.ReportInterval.String(),
	}).Info("starting bot")

	if err := session.Run(ctx); err != nil {
		return err
	}
	<-sched.Done()
	a.log.Info("👋 bot stopped")
	return nil
}

// runOnce drives a single dispatcher command against the terminal.
func runOnce(cmd *cobra.Command, cfg *config.Config, name string, args ...string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	a, err := newApp(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	content := cfg.CommandPrefix + strings.Join(append([]string{name}, args...), " ")
	return a.dispatcher.Handle(cmd.Context(), bot.Message{ChannelID: "console", Content: content}, display.NewConsole(cmd.OutOrStdout()))
}

// showConfig displays the current configuration
func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📋 Current marketwatch Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	if cfg.DiscordToken != "" {
		fmt.Fprintf(w, "Discord Token:        %s\n", cfg.Masked())
	} else {
		fmt.Fprintln(w, "Discord Token:        ❌ Not configured")
	}
	fmt.Fprintf(w, "Channel ID:           %s\n", cfg.ChannelID)
	fmt.Fprintf(w, "Command Prefix:       %s\n", cfg.CommandPrefix)
	fmt.Fprintf(w, "Report Interval:      %s\n", cfg.ReportInterval)
	fmt.Fprintf(w, "Presence:             %s\n", cfg.Presence)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Quote Provider:       %s\n", cfg.QuoteProvider)
	watchlist := cfg.WatchlistFile
	if watchlist == "" {
		watchlist = "(built-in)"
	}
	fmt.Fprintf(w, "Watchlist:            %s\n", watchlist)
	fmt.Fprintf(w, "Conversion Symbol:    %s\n", cfg.ConversionSymbol)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "News Endpoint:        %s\n", cfg.NewsEndpoint)
	fmt.Fprintf(w, "News Locale:          %s / %s\n", cfg.NewsLanguage, cfg.NewsCountry)
	fmt.Fprintf(w, "News Limit:           %d\n", cfg.NewsLimit)
	fmt.Fprintf(w, "HTTP Timeout:         %s\n", cfg.HTTPTimeout)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Log Level:            %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Debug Mode:           %t\n", cfg.Debug)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "🔌 API Configuration:")
	fmt.Fprintln(w, "─────────────────────")
	if cfg.LongportAppKey != "" && cfg.LongportAppSecret != "" && cfg.LongportAccessToken != "" {
		fmt.Fprintln(w, "Longport API:         ✅ Configured")
	} else {
		fmt.Fprintln(w, "Longport API:         ❌ Not configured")
	}
}

// validateConfig validates the configuration
func validateConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "🔍 Validating marketwatch Configuration...")
	fmt.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprint(w, "⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(w, "❌")
		return err
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprint(w, "📄 Checking watchlist... ")
	if _, err := loadWatchlist(cfg); err != nil {
		fmt.Fprintln(w, "❌")
		return err
	}
	fmt.Fprintln(w, "✅")

	warnings := []string{}
	if err := cfg.RequireToken(); err != nil {
		warnings = append(warnings, "DISCORD_TOKEN not configured; only one-shot commands will work")
	}
	if cfg.QuoteProvider == config.ProviderLongport &&
		(cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "") {
		warnings = append(warnings, "Longport credentials not configured")
	}

	fmt.Fprintln(w)
	if len(warnings) == 0 {
		fmt.Fprintln(w, "✅ Configuration validation completed successfully!")
		return nil
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	fmt.Fprintf(w, "⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
	return nil
}
