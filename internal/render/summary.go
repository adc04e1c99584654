package render

import (
	"fmt"
	"io"

	"github.com/feedwise/feedwise/internal/model"
)

// Summary prints a compact plain-text overview of a bundle
func (r *Renderer) Summary(out io.Writer, b model.ArticleBundle, p model.UserProfile) {
	fmt.Fprintf(out, "%s: %d articles\n", displayName(p), b.Len())
	for i, a := range b.TopStories {
		fmt.Fprintf(out, "  %d. [%.2f] %s (%s)\n", i+1, a.RelevanceScore(), a.Title, a.Source)
	}
	for _, name := range b.CategoryOrder {
		if n := len(b.Categorized[name]); n > 0 {
			fmt.Fprintf(out, "     %-14s %d\n", name, n)
		}
	}
}
