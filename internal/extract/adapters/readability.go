package adapters

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minReadabilityChars rejects results that are page chrome rather than a story.
const minReadabilityChars = 200

// readabilityText runs the readability scorer over the whole page. It is
// the last resort for pages where no selector finds paragraphs.
func readabilityText(htmlContent, pageURL string) string {
	base := &url.URL{Scheme: "http", Host: "localhost"}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}
	article, err := readability.FromReader(strings.NewReader(htmlContent), base)
	if err != nil {
		return ""
	}
	text := strings.Join(strings.Fields(article.TextContent), " ")
	if len(text) < minReadabilityChars {
		return ""
	}
	return text
}
