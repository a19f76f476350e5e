// Package dataflows fetches external text the protocols feed into a
// prompt. Currently that is one thing: resolving a pasted link into
// readable article text for intel decoding.
package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// maxArticleChars caps how much scraped text ends up in a prompt.
const maxArticleChars = 8000

// IsURL reports whether a pasted intel field is a bare link rather than
// article text.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ArticleFetcher pulls a page and extracts its readable paragraphs.
type ArticleFetcher struct {
	client *resty.Client
}

func NewArticleFetcher() *ArticleFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; warroom/1.0)")

	return &ArticleFetcher{client: client}
}

// Fetch downloads the page and returns its paragraph text, capped to keep
// the prompt bounded. Single attempt.
func (f *ArticleFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch article %s: %w", pageURL, err)
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("HTTP error %d when fetching %s", resp.StatusCode(), pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return "", fmt.Errorf("parse article HTML: %w", err)
	}

	doc.Find("script, style, nav, footer").Remove()

	var paragraphs []string
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 0 {
			paragraphs = append(paragraphs, text)
		}
	})

	text := strings.Join(paragraphs, "\n")
	if strings.TrimSpace(text) == "" {
		text = strings.TrimSpace(doc.Find("body").Text())
	}
	if text == "" {
		return "", fmt.Errorf("no readable text found at %s", pageURL)
	}

	if len(text) > maxArticleChars {
		text = text[:maxArticleChars]
	}
	return text, nil
}
