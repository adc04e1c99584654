package adapters

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SiteAdapter extracts bodies from a known publisher by host suffix
type SiteAdapter struct {
	BaseAdapter
	name      string
	hosts     []string
	selectors []string
}

// NewSiteAdapter creates an adapter for the given host suffixes
func NewSiteAdapter(name string, hosts, selectors []string) *SiteAdapter {
	return &SiteAdapter{name: name, hosts: hosts, selectors: selectors}
}

// Name returns the adapter name
func (a *SiteAdapter) Name() string {
	return a.name
}

// CanHandle matches the URL host against the adapter's host suffixes
func (a *SiteAdapter) CanHandle(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, h := range a.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ExtractBody returns the paragraphs under the site's article container
func (a *SiteAdapter) ExtractBody(doc *goquery.Document) string {
	return a.Join(a.Paragraphs(doc, a.selectors, 10, 1))
}

var builtinSites = []Adapter{
	NewSiteAdapter("techcrunch", []string{"techcrunch.com"}, []string{
		".article-content p",
		".wp-block-post-content p",
		"article p",
	}),
	NewSiteAdapter("arstechnica", []string{"arstechnica.com"}, []string{
		".article-content p",
		".post-content p",
		"article p",
	}),
	NewSiteAdapter("bbc", []string{"bbc.co.uk", "bbc.com"}, []string{
		"[data-component=text-block] p",
		"article p",
	}),
	NewSiteAdapter("guardian", []string{"theguardian.com"}, []string{
		"[data-gu-name=body] p",
		".article-body-commercial-selector p",
		"article p",
	}),
	NewSiteAdapter("nytimes", []string{"nytimes.com"}, []string{
		"section[name=articleBody] p",
		"article p",
	}),
}
