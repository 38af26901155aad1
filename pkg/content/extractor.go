// Package content extracts page-level metadata from raw watch-page HTML,
// used to enrich match reports with the video title and description text.
package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ExtractTitle extracts the video title from watch-page HTML with fallbacks:
// readability first, then the <title> tag, then og:title. The site-name
// suffix the page appends to document titles is stripped.
func ExtractTitle(htmlContent string) (string, error) {
	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err == nil {
		if title := cleanTitle(article.Title); title != "" {
			return title, nil
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if title := cleanTitle(doc.Find("title").First().Text()); title != "" {
		return title, nil
	}

	if title, exists := doc.Find("meta[property='og:title']").Attr("content"); exists {
		if title = cleanTitle(title); title != "" {
			return title, nil
		}
	}

	if title, exists := doc.Find("meta[name='title']").Attr("content"); exists {
		if title = cleanTitle(title); title != "" {
			return title, nil
		}
	}

	return "", fmt.Errorf("title not found in HTML")
}

// ExtractText extracts the readable page text (video description and visible
// metadata) from watch-page HTML.
func ExtractText(htmlContent string) (string, error) {
	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return strings.TrimSpace(article.TextContent), nil
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, " - YouTube")
	return strings.TrimSpace(title)
}
