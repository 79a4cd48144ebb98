package discord

import (
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/dyike/marketwatch/pkg/market"
)

// Discord embed limits.
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFieldName   = 256
	maxFieldValue  = 1024
	maxFields      = 25
	maxFooter      = 2048
)

// zero-width space; Discord rejects empty field values
const blankValue = "\u200b"

// Embed converts a report into a rich message, clamping every part to the
// platform limits.
func Embed(r market.Report) *discordgo.MessageEmbed {
	e := &discordgo.MessageEmbed{
		Title:       truncate(r.Title, maxTitle),
		Description: truncate(r.Subtitle, maxDescription),
		Color:       r.Color,
	}
	if !r.Timestamp.IsZero() {
		e.Timestamp = r.Timestamp.Format(time.RFC3339)
	}
	if r.Footer != "" {
		e.Footer = &discordgo.MessageEmbedFooter{Text: truncate(r.Footer, maxFooter)}
	}

	for i, s := range r.Sections {
		if i == maxFields {
			break
		}
		value := truncate(s.Body(), maxFieldValue)
		if value == "" {
			value = blankValue
		}
		name := truncate(s.Name, maxFieldName)
		if name == "" {
			name = blankValue
		}
		e.Fields = append(e.Fields, &discordgo.MessageEmbedField{Name: name, Value: value})
	}
	return e
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
