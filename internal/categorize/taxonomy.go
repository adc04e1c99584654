package categorize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/feedwise/feedwise/internal/model"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyTaxonomy is returned when a taxonomy declares no categories.
	ErrEmptyTaxonomy = errors.New("taxonomy has no categories")
	// ErrDuplicateCategory is returned when a category name is declared twice.
	ErrDuplicateCategory = errors.New("duplicate category")
)

// Category is a named topic with its seed vocabulary.
type Category struct {
	Name  string   `yaml:"name"`
	Seeds []string `yaml:"seeds"`
}

// Taxonomy is an ordered, immutable list of categories. Declaration order is
// curated priority and breaks confidence ties.
type Taxonomy struct {
	categories []Category
	index      map[string]int
}

// NewTaxonomy validates and copies categories.
func NewTaxonomy(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, ErrEmptyTaxonomy
	}

	t := &Taxonomy{index: make(map[string]int, len(categories))}
	for _, c := range categories {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, fmt.Errorf("category %d: empty name", len(t.categories))
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
		}
		t.index[name] = len(t.categories)
		t.categories = append(t.categories, Category{
			Name:  name,
			Seeds: append([]string(nil), c.Seeds...),
		})
	}
	return t, nil
}

// LoadTaxonomy reads a taxonomy from a YAML file of the form
//
//	categories:
//	  - name: technology
//	    seeds: [software, ai]
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}

	var file struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}

	return NewTaxonomy(file.Categories)
}

// Categories returns a copy of the categories in declaration order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Seeds: append([]string(nil), c.Seeds...)}
	}
	return out
}

// Names returns category names in declaration order.
func (t *Taxonomy) Names() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// Has reports whether name is declared.
func (t *Taxonomy) Has(name string) bool {
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

// DefaultTaxonomy returns the built-in nine-category taxonomy.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(defaultCategories)
	if err != nil {
		panic(err)
	}
	return t
}

var defaultCategories = []Category{
	{Name: "technology", Seeds: strings.Fields(`tech technology ai artificial intelligence software app
		application computer digital internet web cyber security data analytics cloud blockchain
		programming algorithm mobile smartphone device hardware robot automation startup innovation
		computing virtual augmented reality`)},
	{Name: "business", Seeds: strings.Fields(`business company corporation market stock finance economy
		economic investment investor profit revenue startup entrepreneur ceo executive management
		strategy acquisition merger venture capital funding growth industry sector commercial trade
		banking financial`)},
	{Name: "politics", Seeds: strings.Fields(`politics political government election campaign vote voter
		president congress senate house representative democrat republican liberal conservative
		policy law legislation regulation parliament minister cabinet leader party candidate bill
		diplomat foreign nation`)},
	{Name: "entertainment", Seeds: strings.Fields(`entertainment movie film cinema actor actress star
		celebrity music song album concert perform singer band television tv show series episode
		streaming award festival director producer studio hollywood game gaming theater stage comedy
		drama`)},
	{Name: "health", Seeds: strings.Fields(`health medical medicine doctor hospital patient disease
		condition treatment therapy drug research study scientist healthcare mental physical fitness
		exercise diet nutrition wellness healthy vaccine virus pandemic epidemic public emergency care`)},
	{Name: "science", Seeds: strings.Fields(`science scientific research study discovery scientist
		experiment laboratory theory hypothesis physics chemistry biology astronomy space planet star
		galaxy universe climate environment energy renewable sustainable species evolution genetic dna
		molecule atom particle`)},
	{Name: "sports", Seeds: strings.Fields(`sport sports game match player team coach league
		championship tournament competition athlete olympic medal football soccer baseball basketball
		tennis golf racing formula hockey rugby cricket boxing swimming track field fitness stadium fan
		victory defeat`)},
	{Name: "world", Seeds: strings.Fields(`world international global foreign country nation war
		conflict peace military army troops treaty agreement diplomat embassy ambassador border
		refugee immigration trade sanction united nations europe asia africa america middle east
		crisis`)},
	{Name: model.GeneralCategory, Seeds: strings.Fields(`news report update information event
		development situation issue matter topic story article coverage press media daily weekly
		monthly latest breaking current today yesterday tomorrow week month year`)},
}
