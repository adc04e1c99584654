package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// LeadImage returns the first <img> source in htmlContent resolved against
// sourceURL, or "" when there is none.
func LeadImage(htmlContent, sourceURL string) string {
	if !strings.Contains(htmlContent, "<img") {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		base = &url.URL{}
	}

	var found string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, attr := range n.Attr {
				if attr.Key == "src" {
					if resolved := ResolveURL(base, strings.TrimSpace(attr.Val)); resolved != "" {
						found = resolved
						return true
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(doc)
	return found
}

// ResolveURL resolves href against base and keeps only http(s) results.
func ResolveURL(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	if strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "data:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}
