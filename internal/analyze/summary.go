package analyze

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitSentences splits on '.', '!' or '?' followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[i+utf8.RuneLen(r):])
		if next == utf8.RuneError || unicode.IsSpace(next) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// summarize keeps the highest scoring sentences in document order, skips
// any that alone exceed SummaryMaxChars, then drops trailing sentences
// until the result fits. Sentences are never cut.
func (a *Analyzer) summarize(text string, freq map[string]int) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}

	picked := make([]int, len(sentences))
	for i := range sentences {
		picked[i] = i
	}

	if len(sentences) > a.cfg.SummarySentences {
		scores := make([]float64, len(sentences))
		for i, s := range sentences {
			scores[i] = a.sentenceScore(s, freq)
		}
		sort.SliceStable(picked, func(i, j int) bool {
			return scores[picked[i]] > scores[picked[j]]
		})
		picked = picked[:a.cfg.SummarySentences]
		sort.Ints(picked)
	}

	fitting := picked[:0]
	for _, i := range picked {
		if utf8.RuneCountInString(sentences[i]) <= a.cfg.SummaryMaxChars {
			fitting = append(fitting, i)
		}
	}
	picked = fitting

	for n := len(picked); n > 0; n-- {
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = sentences[picked[i]]
		}
		summary := strings.Join(parts, " ")
		if utf8.RuneCountInString(summary) <= a.cfg.SummaryMaxChars {
			return summary
		}
	}
	return ""
}

// sentenceScore is the mean document frequency of the sentence's content stems.
func (a *Analyzer) sentenceScore(sentence string, freq map[string]int) float64 {
	tokens := a.contentTokens(sentence)
	if len(tokens) == 0 {
		return 0
	}
	total := 0
	for _, t := range tokens {
		total += freq[t.stem]
	}
	return float64(total) / float64(len(tokens))
}
