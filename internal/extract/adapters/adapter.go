// Package adapters pulls the article body out of a fetched news page using
// per-site CSS selectors.
package adapters

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Adapter defines the interface for site-specific body extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL
	CanHandle(url string) bool

	// ExtractBody returns the article body text, paragraphs separated by blank lines
	ExtractBody(doc *goquery.Document) string
}

// Registry manages site adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in site adapters
func NewRegistry() *Registry {
	registry := &Registry{}

	for _, site := range builtinSites {
		registry.Register(site)
	}

	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL
func (r *Registry) FindAdapter(url string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url) {
			return adapter
		}
	}
	return r.generic
}

// Extract parses htmlContent and runs the matching adapter. A site adapter
// that finds nothing falls back to the generic one, then to readability.
func (r *Registry) Extract(htmlContent, url string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	adapter := r.FindAdapter(url)
	body := adapter.ExtractBody(doc)
	if body == "" && adapter != r.generic {
		body = r.generic.ExtractBody(doc)
	}
	if body == "" {
		body = readabilityText(htmlContent, url)
	}
	if body == "" {
		return "", fmt.Errorf("no article body found by %s adapter", adapter.Name())
	}
	return body, nil
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// Paragraphs tries selectors in order and returns the paragraphs of the first
// selector that yields at least enough of them. Paragraphs shorter than
// minLen are treated as chrome (bylines, buttons) and skipped.
func (b *BaseAdapter) Paragraphs(doc *goquery.Document, selectors []string, minLen, enough int) []string {
	var best []string
	for _, selector := range selectors {
		var paragraphs []string
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len(text) >= minLen {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= enough {
			return paragraphs
		}
		if len(paragraphs) > len(best) {
			best = paragraphs
		}
	}
	return best
}

// Join renders paragraphs the way the analyzer expects them
func (b *BaseAdapter) Join(paragraphs []string) string {
	return strings.Join(paragraphs, "\n\n")
}
