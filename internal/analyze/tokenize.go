package analyze

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// token is one word of the input with its lowercase form and stem.
type token struct {
	lower string
	stem  string
}

// words splits text into runs of letters and digits. Apostrophes inside a
// word are kept so contractions meet the stopword list intact.
func words(text string) []string {
	var out []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			out = append(out, strings.Trim(cur.String(), "'"))
			cur.Reset()
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur.WriteRune(r)
		case (r == '\'' || r == '’') && cur.Len() > 0 && i+1 < len(runes) && unicode.IsLetter(runes[i+1]):
			cur.WriteRune('\'')
		default:
			flush()
		}
	}
	flush()

	return out
}

// isAcronym reports whether w is written in capitals, like "AI" or "F1".
func isAcronym(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 0 && len([]rune(w)) >= 2
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func stem(lower string) string {
	return english.Stem(lower, false)
}

// contentTokens returns the tokens that carry meaning: not stopwords, not
// pure numbers, and at least minLen runes long unless written as an acronym.
func (a *Analyzer) contentTokens(text string) []token {
	var out []token
	for _, w := range words(text) {
		if w == "" || isNumeric(w) {
			continue
		}
		lower := strings.ToLower(w)
		if a.res.IsStopword(lower) {
			continue
		}
		if len([]rune(lower)) < a.cfg.KeywordMinLength && !isAcronym(w) {
			continue
		}
		out = append(out, token{lower: lower, stem: stem(lower)})
	}
	return out
}

// Normalize maps a free-form term (an interest, a seed word, a keyword) into
// the stem space used by every comparison. Stopwords are dropped but no
// length filter applies, so short interests like "AI" survive.
func (a *Analyzer) Normalize(term string) []string {
	var out []string
	for _, w := range words(term) {
		lower := strings.ToLower(w)
		if lower == "" || a.res.IsStopword(lower) {
			continue
		}
		out = append(out, stem(lower))
	}
	return out
}
