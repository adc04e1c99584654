package feed

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sources maps a category hint to the feed URLs published under it.
type Sources map[string][]string

// sourcesFile is the YAML layout of feeds.yaml:
//
//	feeds:
//	  technology:
//	    - https://techcrunch.com/feed/
type sourcesFile struct {
	Feeds Sources `yaml:"feeds"`
}

// LoadSources reads a feeds file. Categories are lowercased and blank or
// repeated URLs are dropped.
func LoadSources(path string) (Sources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}
	if len(f.Feeds) == 0 {
		return nil, fmt.Errorf("feeds file %s defines no feeds", path)
	}
	return f.Feeds.normalize(), nil
}

// Marshal renders sources in the feeds.yaml layout.
func (s Sources) Marshal() ([]byte, error) {
	return yaml.Marshal(sourcesFile{Feeds: s})
}

// Categories returns category names in sorted order.
func (s Sources) Categories() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Only returns the subset of sources for the given categories. An empty
// filter returns s unchanged.
func (s Sources) Only(categories []string) Sources {
	if len(categories) == 0 {
		return s
	}
	out := make(Sources)
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if urls, ok := s[c]; ok {
			out[c] = urls
		}
	}
	return out
}

// Len returns the total number of feed URLs.
func (s Sources) Len() int {
	n := 0
	for _, urls := range s {
		n += len(urls)
	}
	return n
}

func (s Sources) normalize() Sources {
	out := make(Sources, len(s))
	seen := make(map[string]map[string]bool)
	for _, name := range s.Categories() {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		for _, u := range s[name] {
			u = strings.TrimSpace(u)
			if u == "" || seen[key][u] {
				continue
			}
			seen[key][u] = true
			out[key] = append(out[key], u)
		}
	}
	return out
}

// DefaultSources returns the built-in feed list.
func DefaultSources() Sources {
	return Sources{
		"general": {
			"https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml",
			"https://feeds.bbci.co.uk/news/rss.xml",
			"https://www.theguardian.com/world/rss",
		},
		"technology": {
			"https://techcrunch.com/feed/",
			"https://www.wired.com/feed/rss",
			"https://feeds.arstechnica.com/arstechnica/technology-lab",
			"https://www.technologyreview.com/topnews.rss",
		},
		"business": {
			"https://feeds.bloomberg.com/markets/news.rss",
			"https://www.forbes.com/business/feed/",
			"https://rss.nytimes.com/services/xml/rss/nyt/Business.xml",
		},
		"finance": {
			"https://www.coindesk.com/arc/outboundfeeds/rss/",
			"https://www.ft.com/rss/home",
		},
		"sports": {
			"https://www.espn.com/espn/rss/news",
			"https://feeds.bbci.co.uk/sport/rss.xml",
			"https://www.skysports.com/rss/12040",
		},
		"entertainment": {
			"https://variety.com/feed/",
			"https://www.rollingstone.com/feed/",
			"https://www.billboard.com/feed/",
			"https://www.hollywoodreporter.com/feed/",
		},
		"science": {
			"https://www.nasa.gov/rss/dyn/breaking_news.rss",
			"https://www.sciencedaily.com/rss/all.xml",
			"https://www.nature.com/nature.rss",
		},
		"health": {
			"https://rss.nytimes.com/services/xml/rss/nyt/Health.xml",
			"https://feeds.bbci.co.uk/news/health/rss.xml",
		},
		"politics": {
			"https://rss.nytimes.com/services/xml/rss/nyt/Politics.xml",
			"https://feeds.bbci.co.uk/news/politics/rss.xml",
		},
		"world": {
			"https://rss.nytimes.com/services/xml/rss/nyt/World.xml",
			"https://feeds.bbci.co.uk/news/world/rss.xml",
		},
	}
}
