package selection

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/feedwise/feedwise/internal/model"
)

var base = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

var order = []string{"technology", "business", "science", "general"}

func art(id, category string, score float64, published time.Time) model.Article {
	return model.Article{
		ID:          id,
		PublishedAt: published,
		Categories:  []model.CategoryScore{{Name: category, Confidence: 0.5}},
		Relevance:   &model.Relevance{Score: score},
	}
}

func topIDs(b model.ArticleBundle) []string {
	var out []string
	for _, a := range b.TopStories {
		out = append(out, a.ID)
	}
	return out
}

func sample() []model.Article {
	return []model.Article{
		art("t1", "technology", 0.9, base),
		art("b1", "business", 0.8, base),
		art("s1", "science", 0.7, base),
		art("t2", "technology", 0.6, base),
		art("s2", "science", 0.5, base),
		art("g1", "general", 0.4, base),
		art("b2", "business", 0.3, base),
	}
}

func TestSelect_TopStoriesAndBuckets(t *testing.T) {
	s := New(order)
	b := s.Select(sample(), 3)

	if got := topIDs(b); !reflect.DeepEqual(got, []string{"t1", "b1", "s1"}) {
		t.Errorf("TopStories = %v", got)
	}

	want := map[string][]string{
		"technology": {"t2"},
		"science":    {"s2"},
		"general":    {"g1"},
		"business":   {"b2"},
	}
	for name, ids := range want {
		var got []string
		for _, a := range b.Categorized[name] {
			got = append(got, a.ID)
		}
		if !reflect.DeepEqual(got, ids) {
			t.Errorf("bucket %s = %v, want %v", name, got, ids)
		}
	}

	if !reflect.DeepEqual(b.CategoryOrder, []string{"technology", "business", "science", "general"}) {
		t.Errorf("CategoryOrder = %v", b.CategoryOrder)
	}
}

func TestSelect_Coverage(t *testing.T) {
	s := New(order)
	in := sample()
	b := s.Select(in, 2)

	seen := map[string]int{}
	for _, a := range b.TopStories {
		seen[a.ID]++
	}
	for _, bucket := range b.Categorized {
		for _, a := range bucket {
			seen[a.ID]++
		}
	}

	if len(seen) != len(in) {
		t.Errorf("bundle covers %d articles, want %d", len(seen), len(in))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("article %s appears %d times", id, n)
		}
	}
}

func TestSelect_NoEmptyBuckets(t *testing.T) {
	s := New(order)
	b := s.Select([]model.Article{
		art("t1", "technology", 0.9, base),
		art("t2", "technology", 0.8, base),
	}, 3)

	if len(b.Categorized) != 0 {
		t.Errorf("Categorized = %v, want empty", b.Categorized)
	}
	if len(b.CategoryOrder) != 0 {
		t.Errorf("CategoryOrder = %v, want empty", b.CategoryOrder)
	}
	if len(b.TopStories) != 2 {
		t.Errorf("len(TopStories) = %d, want 2", len(b.TopStories))
	}
}

func TestSelect_TopStoriesBound(t *testing.T) {
	s := New(order)
	n := len(sample())
	for _, maxTop := range []int{-1, 0, 1, n + 1} {
		b := s.Select(sample(), maxTop)
		want := min(max(maxTop, 0), n)
		if len(b.TopStories) != want {
			t.Errorf("maxTop=%d: len(TopStories) = %d, want %d", maxTop, len(b.TopStories), want)
		}

		total := len(b.TopStories)
		for _, bucket := range b.Categorized {
			total += len(bucket)
		}
		if total != n {
			t.Errorf("maxTop=%d: bundle holds %d articles, want %d", maxTop, total, n)
		}
	}
}

func TestSelect_TieBreaks(t *testing.T) {
	s := New(order)
	b := s.Select([]model.Article{
		art("c", "technology", 0.5, base),
		art("b", "technology", 0.5, base.Add(time.Hour)),
		art("a", "technology", 0.5, base),
	}, 3)

	if got := topIDs(b); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("TopStories = %v, want [b a c]", got)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	s := New(order)
	want := s.Select(sample(), 3)

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		in := sample()
		r.Shuffle(len(in), func(i, j int) { in[i], in[j] = in[j], in[i] })
		if got := s.Select(in, 3); !reflect.DeepEqual(got, want) {
			t.Fatalf("shuffle %d produced a different bundle", i)
		}
	}
}

func TestSelect_SkipsUnscoredAndDuplicates(t *testing.T) {
	s := New(order)
	unscored := model.Article{ID: "x", Categories: []model.CategoryScore{{Name: "technology"}}}
	dup := art("t1", "technology", 0.1, base)

	b := s.Select(append(sample(), unscored, dup), 3)

	count := 0
	for _, a := range b.TopStories {
		if a.ID == "x" {
			t.Error("unscored article selected")
		}
		if a.ID == "t1" {
			count++
		}
	}
	for _, bucket := range b.Categorized {
		for _, a := range bucket {
			if a.ID == "x" {
				t.Error("unscored article selected")
			}
			if a.ID == "t1" {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("t1 appears %d times, want 1", count)
	}
}

func TestSelect_UncategorizedGoesToGeneral(t *testing.T) {
	s := New(order)
	a := model.Article{ID: "u", Relevance: &model.Relevance{Score: 0.1}}

	b := s.Select([]model.Article{art("t1", "technology", 0.9, base), a}, 1)
	if len(b.Categorized["general"]) != 1 {
		t.Fatalf("Categorized = %v, want article in general", b.Categorized)
	}
	if len(b.Categorized["general"][0].Categories) == 0 {
		t.Error("bundle article has no categories")
	}
}

func TestSelect_UnknownCategoriesSortedAfter(t *testing.T) {
	s := New(order)
	b := s.Select([]model.Article{
		art("top", "technology", 0.9, base),
		art("z", "zoology", 0.5, base),
		art("a", "astrology", 0.4, base),
		art("g", "general", 0.3, base),
	}, 1)

	want := []string{"general", "astrology", "zoology"}
	if !reflect.DeepEqual(b.CategoryOrder, want) {
		t.Errorf("CategoryOrder = %v, want %v", b.CategoryOrder, want)
	}
}
