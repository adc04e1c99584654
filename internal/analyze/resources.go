package analyze

import (
	"strings"
	"sync"
)

// Resources holds the read-only linguistic data shared by every analyzer.
// Build it once at startup and pass it by reference; it is never mutated.
type Resources struct {
	stopwords map[string]struct{}
	positive  map[string]struct{}
	negative  map[string]struct{}
}

// NewResources builds a resource set from word lists. Words are lowercased.
func NewResources(stopwords, positive, negative []string) *Resources {
	return &Resources{
		stopwords: toSet(stopwords),
		positive:  toSet(positive),
		negative:  toSet(negative),
	}
}

var defaultResources = sync.OnceValue(func() *Resources {
	return NewResources(
		strings.Fields(englishStopwords),
		strings.Fields(positiveWords),
		strings.Fields(negativeWords),
	)
})

// DefaultResources returns the built-in English resources.
func DefaultResources() *Resources {
	return defaultResources()
}

// IsStopword reports whether the lowercase word is a stopword.
func (r *Resources) IsStopword(word string) bool {
	_, ok := r.stopwords[word]
	return ok
}

func (r *Resources) polarity(word string) int {
	if _, ok := r.positive[word]; ok {
		return 1
	}
	if _, ok := r.negative[word]; ok {
		return -1
	}
	return 0
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

const englishStopwords = `
a about above after again against ain all am an and any are aren aren't as at
be because been before being below between both but by can couldn couldn't
d did didn didn't do does doesn doesn't doing don don't down during each few
for from further had hadn hadn't has hasn hasn't have haven haven't having he
her here hers herself him himself his how i if in into is isn isn't it it's its
itself just ll m ma me mightn mightn't more most mustn mustn't my myself needn
needn't no nor not now o of off on once only or other our ours ourselves out
over own re s same shan shan't she she's should should've shouldn shouldn't so
some such t than that that'll the their theirs them themselves then there these
they this those through to too under until up ve very was wasn wasn't we were
weren weren't what when where which while who whom why will with won won't
wouldn wouldn't y you you'd you'll you're you've your yours yourself yourselves
also could would said says one two new like get got us may might must shall
`

const positiveWords = `
good great excellent positive amazing wonderful fantastic terrific outstanding
superb brilliant success successful beneficial advantage innovative
`

const negativeWords = `
bad terrible poor negative awful horrible disappointing failure failed problem
disaster crisis dangerous threat risk concern
`
