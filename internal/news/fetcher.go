package news

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"news-impact-engine/internal/logger"
)

// Article is one fetched news item before sentiment scoring.
type Article struct {
	Title       string
	URL         string
	Content     string
	Source      string
	PublishedAt string
}

// Fetcher scrapes headlines for a topic from the configured sources.
type Fetcher struct {
	sources []Source
	timeout time.Duration
}

// Source defines one news site to scrape.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{topic}" is replaced with the query
	Selectors  Selectors
	RateLimit  time.Duration
}

// Selectors holds the CSS selectors for extracting article data.
type Selectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Content          string
	PublishedAt      string
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{topic}.html",
			Selectors: Selectors{
				ArticleContainer: "li.clearfix",
				Title:            "h2 a, h3 a",
				URL:              "h2 a, h3 a",
				Content:          "p",
				PublishedAt:      "span.ago",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{topic}",
			Selectors: Selectors{
				ArticleContainer: "div.story-box",
				Title:            "a",
				URL:              "a",
				Content:          "p",
				PublishedAt:      "time",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Fetch collects up to maxArticles articles about topic across all sources.
// A failing source is logged and skipped; the batch is best-effort.
func (f *Fetcher) Fetch(ctx context.Context, topic string, maxArticles int) ([]Article, error) {
	logger.Info(ctx, "Starting news fetch", "topic", topic, "sources", len(f.sources))

	perSource := maxArticles / len(f.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []Article
	for _, source := range f.sources {
		articles, err := f.fetchSource(ctx, source, topic, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to fetch source", err, "source", source.Name, "topic", topic)
			continue
		}
		all = append(all, articles...)
		if len(all) >= maxArticles {
			all = all[:maxArticles]
			break
		}

		time.Sleep(source.RateLimit)
	}

	logger.Info(ctx, "News fetch completed", "topic", topic, "articles", len(all))
	return all, nil
}

func (f *Fetcher) fetchSource(ctx context.Context, source Source, topic string, maxArticles int) ([]Article, error) {
	var articles []Article

	c := colly.NewCollector(
		colly.AllowedDomains(domain(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.ArticleContainer, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}

		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}
		articleURL := e.ChildAttr(source.Selectors.URL, "href")
		if articleURL == "" {
			return
		}
		if !strings.HasPrefix(articleURL, "http") {
			articleURL = source.BaseURL + articleURL
		}

		articles = append(articles, Article{
			Title:       title,
			URL:         articleURL,
			Content:     strings.TrimSpace(e.ChildText(source.Selectors.Content)),
			Source:      source.Name,
			PublishedAt: strings.TrimSpace(e.ChildText(source.Selectors.PublishedAt)),
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Fetch error", err, "source", source.Name, "url", r.Request.URL.String())
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{topic}", url.PathEscape(strings.ToLower(topic)))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return f.enrich(ctx, articles), nil
}

// enrich pulls full body text for articles whose listing snippet was too
// short to score meaningfully.
func (f *Fetcher) enrich(ctx context.Context, articles []Article) []Article {
	for i := range articles {
		if len(articles[i].Content) >= 100 {
			continue
		}
		if body := f.fetchBody(ctx, articles[i].URL); body != "" {
			articles[i].Content = body
		}
		time.Sleep(500 * time.Millisecond)
	}
	return articles
}

func (f *Fetcher) fetchBody(ctx context.Context, articleURL string) string {
	c := colly.NewCollector()
	c.SetRequestTimeout(f.timeout)

	var body string
	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to parse article page", err, "url", articleURL)
			return
		}
		var parts []string
		doc.Find("article p, div.article-body p, div.content-body p, div.story-content p").Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		body = strings.Join(parts, " ")
	})

	if err := c.Visit(articleURL); err != nil {
		logger.Debug(ctx, "Article body fetch failed", "url", articleURL, "error", err.Error())
		return ""
	}
	c.Wait()

	if len(body) > 5000 {
		body = body[:5000]
	}
	return body
}

func domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
