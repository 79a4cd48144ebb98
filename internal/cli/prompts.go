package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/marketwatch/config"
)

// PromptForSettings asks for the values written by the init command,
// defaulting each one to the current configuration.
func PromptForSettings(cfg *config.Config) (map[string]string, error) {
	answers := struct {
		Token    string
		Channel  string
		Prefix   string
		Interval string
		Provider string
	}{}

	questions := []*survey.Question{
		{
			Name: "token",
			Prompt: &survey.Password{
				Message: "Discord bot token (leave empty to keep the current one):",
			},
		},
		{
			Name: "channel",
			Prompt: &survey.Input{
				Message: "Channel ID for scheduled reports:",
				Default: cfg.ChannelID,
			},
			Validate: survey.Required,
		},
		{
			Name: "prefix",
			Prompt: &survey.Input{
				Message: "Command prefix:",
				Default: cfg.CommandPrefix,
			},
			Validate: survey.Required,
		},
		{
			Name: "interval",
			Prompt: &survey.Input{
				Message: "Report interval (e.g. 1h, 30m):",
				Default: cfg.ReportInterval.String(),
			},
			Validate: func(val interface{}) error {
				d, err := time.ParseDuration(strings.TrimSpace(val.(string)))
				if err != nil {
					return fmt.Errorf("invalid duration")
				}
				if d < time.Minute {
					return fmt.Errorf("interval must be at least 1m")
				}
				return nil
			},
		},
		{
			Name: "provider",
			Prompt: &survey.Select{
				Message: "Quote provider:",
				Options: []string{config.ProviderYahoo, config.ProviderLongport},
				Default: cfg.QuoteProvider,
			},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}

	values := map[string]string{
		"DISCORD_TOKEN":    strings.TrimSpace(answers.Token),
		"STOCK_CHANNEL_ID": strings.TrimSpace(answers.Channel),
		"COMMAND_PREFIX":   strings.TrimSpace(answers.Prefix),
		"REPORT_INTERVAL":  strings.TrimSpace(answers.Interval),
		"QUOTE_PROVIDER":   answers.Provider,
	}

	if answers.Provider == config.ProviderLongport {
		lp, err := promptForLongport()
		if err != nil {
			return nil, err
		}
		for k, v := range lp {
			values[k] = v
		}
	}
	return values, nil
}

func promptForLongport() (map[string]string, error) {
	answers := struct {
		AppKey      string `survey:"app_key"`
		AppSecret   string `survey:"app_secret"`
		AccessToken string `survey:"access_token"`
	}{}
	questions := []*survey.Question{
		{Name: "app_key", Prompt: &survey.Input{Message: "Longport app key:"}},
		{Name: "app_secret", Prompt: &survey.Password{Message: "Longport app secret:"}},
		{Name: "access_token", Prompt: &survey.Password{Message: "Longport access token:"}},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}
	return map[string]string{
		"LONGPORT_APP_KEY":      strings.TrimSpace(answers.AppKey),
		"LONGPORT_APP_SECRET":   strings.TrimSpace(answers.AppSecret),
		"LONGPORT_ACCESS_TOKEN": strings.TrimSpace(answers.AccessToken),
	}, nil
}
