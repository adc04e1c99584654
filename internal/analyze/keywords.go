package analyze

import "sort"

type stemStat struct {
	stem  string
	count int
	first int
	forms map[string]int
	order []string
}

// keywords ranks stems by frequency, breaking ties by first occurrence, and
// emits the most common surface form of each.
func (a *Analyzer) keywords(tokens []token, freq map[string]int) []string {
	stats := make(map[string]*stemStat, len(freq))
	var ordered []*stemStat

	for i, t := range tokens {
		st, ok := stats[t.stem]
		if !ok {
			st = &stemStat{stem: t.stem, count: freq[t.stem], first: i, forms: map[string]int{}}
			stats[t.stem] = st
			ordered = append(ordered, st)
		}
		if _, seen := st.forms[t.lower]; !seen {
			st.order = append(st.order, t.lower)
		}
		st.forms[t.lower]++
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].first < ordered[j].first
	})

	if len(ordered) > a.cfg.MaxKeywords {
		ordered = ordered[:a.cfg.MaxKeywords]
	}

	out := make([]string, 0, len(ordered))
	for _, st := range ordered {
		out = append(out, st.surface())
	}
	return out
}

func (s *stemStat) surface() string {
	best := s.order[0]
	for _, form := range s.order[1:] {
		if s.forms[form] > s.forms[best] {
			best = form
		}
	}
	return best
}
