// Package validate rejects structurally invalid articles and optionally
// confirms that article links still resolve.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/feedwise/feedwise/internal/model"
)

// Article checks the identity fields every later stage depends on.
// The returned error wraps model.ErrMalformedArticle.
func Article(a model.Article) error {
	switch {
	case strings.TrimSpace(a.ID) == "":
		return fmt.Errorf("%w: missing id", model.ErrMalformedArticle)
	case strings.TrimSpace(a.Title) == "":
		return fmt.Errorf("%w: article %s: missing title", model.ErrMalformedArticle, a.ID)
	case strings.TrimSpace(a.Source) == "":
		return fmt.Errorf("%w: article %s: missing source", model.ErrMalformedArticle, a.ID)
	case strings.TrimSpace(a.URL) == "":
		return fmt.Errorf("%w: article %s: missing url", model.ErrMalformedArticle, a.ID)
	}

	u, err := url.Parse(a.URL)
	if err != nil {
		return fmt.Errorf("%w: article %s: parse url: %v", model.ErrMalformedArticle, a.ID, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: article %s: url %q is not absolute http(s)", model.ErrMalformedArticle, a.ID, a.URL)
	}
	return nil
}
