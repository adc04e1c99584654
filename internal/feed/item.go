package feed

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/feedwise/feedwise/internal/extract"
	"github.com/feedwise/feedwise/internal/model"
)

// ToArticle converts one parsed feed item into an unanalyzed article.
// Only the raw fields are filled.
func ToArticle(item *gofeed.Item, f *gofeed.Feed, feedURL, category string, now time.Time) model.Article {
	link := CanonicalURL(strings.TrimSpace(item.Link))
	source := SourceName(f, feedURL)
	title := strings.TrimSpace(item.Title)

	markup := item.Content
	if strings.TrimSpace(markup) == "" {
		markup = item.Description
	}

	return model.Article{
		ID:           ArticleID(link, source, title),
		Title:        title,
		URL:          link,
		Source:       source,
		Author:       authorName(item),
		PublishedAt:  publishedAt(item, now),
		RawText:      plainText(markup),
		ImageURL:     imageURL(item, markup, link),
		FeedCategory: category,
	}
}

// ArticleID derives a stable id from the canonical URL. Items without a
// link fall back to source and title.
func ArticleID(canonicalURL, source, title string) string {
	name := canonicalURL
	if name == "" {
		name = strings.ToLower(source) + "\n" + strings.ToLower(title)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// CanonicalURL lowercases scheme and host and drops the fragment.
// Unparseable input is returned unchanged.
func CanonicalURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// SourceName prefers the feed title and falls back to the feed host
// without its www. prefix.
func SourceName(f *gofeed.Feed, feedURL string) string {
	if f != nil {
		if title := strings.TrimSpace(f.Title); title != "" {
			return title
		}
	}
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func publishedAt(item *gofeed.Item, now time.Time) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC()
	default:
		return now
	}
}

func authorName(item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return strings.TrimSpace(p.Name)
		}
	}
	return ""
}

// imageURL tries media:content, media:thumbnail, image enclosures, the
// item image and finally the first <img> in the content.
func imageURL(item *gofeed.Item, markup, link string) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, e := range media[name] {
				if u := e.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	return extract.LeadImage(markup, link)
}

func plainText(markup string) string {
	text := markup
	if strings.Contains(markup, "<") {
		if visible, err := extract.VisibleText(markup); err == nil {
			text = visible
		}
	}
	return strings.Join(strings.Fields(text), " ")
}
