package dataflows

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/mmcdole/gofeed"
)

const (
	DefaultNewsEndpoint = "https://news.google.com/rss/search"
	DefaultNewsLimit    = 5
)

// NewsItem is one headline from a feed query
type NewsItem struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Summary   string     `json:"summary,omitempty"`
	Published *time.Time `json:"published,omitempty"`
}

type GoogleNewsConfig struct {
	Endpoint  string
	Language  string // en-US
	Country   string // US
	Limit     int
	Timeout   time.Duration
	UserAgent string
}

// GoogleNewsClient queries the Google News RSS search feed
type GoogleNewsClient struct {
	client *resty.Client
	parser *gofeed.Parser
	cfg    GoogleNewsConfig
}

// NewGoogleNewsClient creates a new Google News client
func NewGoogleNewsClient(cfg GoogleNewsConfig) *GoogleNewsClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultNewsEndpoint
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.Country == "" {
		cfg.Country = "US"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultNewsLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &GoogleNewsClient{
		client: client,
		parser: gofeed.NewParser(),
		cfg:    cfg,
	}
}

// SearchQuery is the free-text query sent for a topic.
func SearchQuery(topic string) string {
	return fmt.Sprintf("%s stock news", topic)
}

// BuildURL constructs the RSS search URL. Spaces are encoded as %20 and
// slashes are left as is.
func (gnc *GoogleNewsClient) BuildURL(query string) string {
	encoded := strings.NewReplacer("+", "%20", "%2F", "/").Replace(url.QueryEscape(query))
	lang := gnc.cfg.Language
	if i := strings.Index(lang, "-"); i > 0 {
		lang = lang[:i]
	}
	return fmt.Sprintf("%s?q=%s&hl=%s&gl=%s&ceid=%s:%s",
		gnc.cfg.Endpoint, encoded, gnc.cfg.Language, gnc.cfg.Country, gnc.cfg.Country, lang)
}

// Search returns up to Limit of the most recent items for topic. An empty
// slice with a nil error means the feed had no entries.
func (gnc *GoogleNewsClient) Search(ctx context.Context, topic string) ([]NewsItem, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("search topic cannot be empty")
	}

	resp, err := gnc.client.R().SetContext(ctx).Get(gnc.BuildURL(SearchQuery(topic)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google News: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("HTTP error %d when fetching Google News", resp.StatusCode())
	}

	feed, err := gnc.parser.Parse(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil || strings.TrimSpace(it.Title) == "" {
			continue
		}
		items = append(items, NewsItem{
			Title:     strings.TrimSpace(it.Title),
			Link:      it.Link,
			Summary:   plainText(it.Description),
			Published: it.PublishedParsed,
		})
	}

	return MostRecent(items, gnc.cfg.Limit), nil
}

// MostRecent orders items newest first, undated items last in feed order,
// and keeps at most n.
func MostRecent(items []NewsItem, n int) []NewsItem {
	out := append([]NewsItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Published, out[j].Published
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// plainText flattens the HTML snippet Google puts in descriptions.
func plainText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
