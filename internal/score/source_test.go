package score

import "testing"

func TestSourceMatcher_Match(t *testing.T) {
	m := NewSourceMatcher()

	tests := []struct {
		name      string
		source    string
		url       string
		preferred []string
		want      Match
	}{
		{"exact name", "TechCrunch", "", []string{"techcrunch"}, MatchExact},
		{"exact host", "", "https://www.wired.com/story", []string{"wired.com"}, MatchExact},
		{"partial name", "BBC Sport", "", []string{"BBC"}, MatchPartial},
		{"subdomain", "", "https://feeds.arstechnica.com/x", []string{"arstechnica.com"}, MatchPartial},
		{"name against host", "", "https://techcrunch.com/a", []string{"TechCrunch"}, MatchPartial},
		{"exact wins over partial", "Wired", "", []string{"Wired Magazine", "Wired"}, MatchExact},
		{"none", "Reuters", "https://reuters.com/x", []string{"Bloomberg"}, MatchNone},
		{"empty preferences", "Reuters", "", nil, MatchNone},
		{"blank entry ignored", "Reuters", "", []string{"  "}, MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := m.Match(tt.source, tt.url, tt.preferred)
			if got != tt.want {
				t.Errorf("Match() = %s, want %s", got, tt.want)
			}
		})
	}
}
