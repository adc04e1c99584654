package score

import (
	"net/url"
	"strings"
)

// Match classifies how an article source relates to a preferred source.
type Match string

const (
	MatchNone    Match = "no"
	MatchPartial Match = "partial"
	MatchExact   Match = "exact"
)

// SourceMatcher compares article sources and hosts with preferred sources.
// Matching is case-insensitive and ignores a leading "www.".
type SourceMatcher struct{}

// NewSourceMatcher creates a new source matcher
func NewSourceMatcher() *SourceMatcher {
	return &SourceMatcher{}
}

// Match returns the best match of source/articleURL against preferred, along
// with the preferred entry that produced it.
func (m *SourceMatcher) Match(source, articleURL string, preferred []string) (Match, string) {
	name := normalizeName(source)
	host := hostOf(articleURL)

	best, bestEntry := MatchNone, ""
	for _, p := range preferred {
		want := normalizeName(p)
		if want == "" {
			continue
		}

		switch m.classify(name, host, want) {
		case MatchExact:
			return MatchExact, p
		case MatchPartial:
			if best == MatchNone {
				best, bestEntry = MatchPartial, p
			}
		}
	}
	return best, bestEntry
}

func (m *SourceMatcher) classify(name, host, want string) Match {
	if name != "" && name == want {
		return MatchExact
	}
	if host != "" && host == strings.TrimPrefix(want, "www.") {
		return MatchExact
	}

	if name != "" && (strings.Contains(name, want) || strings.Contains(want, name)) {
		return MatchPartial
	}

	if host != "" {
		// "foo.techcrunch.com" under "techcrunch.com"
		if strings.HasSuffix(host, "."+want) {
			return MatchPartial
		}
		// "TechCrunch" against "techcrunch.com"
		compact := strings.ReplaceAll(want, " ", "")
		if len(compact) >= 3 && strings.Contains(host, compact) {
			return MatchPartial
		}
	}
	return MatchNone
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func hostOf(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}
