package adapters

import "github.com/PuerkitoBio/goquery"

// GenericAdapter is the fallback adapter for unknown sites
type GenericAdapter struct {
	BaseAdapter
	selectors []string
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{
		selectors: []string{
			"article p",
			"[itemprop=articleBody] p",
			".article-body p",
			".post-content p",
			".entry-content p",
			"main p",
			"#content p",
			"p",
		},
	}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(url string) bool {
	return true
}

// ExtractBody collects paragraphs from the most specific container found
func (a *GenericAdapter) ExtractBody(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, footer, aside").Remove()
	return a.Join(a.Paragraphs(doc, a.selectors, 20, 3))
}
