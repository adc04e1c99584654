package dedupe

import (
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/feedwise/feedwise/internal/analyze"
	"github.com/feedwise/feedwise/internal/model"
)

var base = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newTestDeduplicator(threshold float64) *Deduplicator {
	return New(model.DedupeConfig{Threshold: threshold}, analyze.New(model.AnalysisConfig{}, nil))
}

func scored(id, title string, score float64, published time.Time) model.Article {
	return model.Article{
		ID:          id,
		Title:       title,
		URL:         "https://example.com/" + id,
		PublishedAt: published,
		Relevance:   &model.Relevance{Score: score},
	}
}

func ids(articles []model.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}

func fiveWithOneDuplicatePair() []model.Article {
	return []model.Article{
		scored("a", "SpaceX launches Starship rocket on test flight", 0.4, base),
		scored("b", "Central bank holds interest rates steady", 0.6, base),
		scored("c", "SpaceX Starship rocket launches on test flight today", 0.7, base),
		scored("d", "Local team wins championship final", 0.3, base),
		scored("e", "New vaccine shows promise in trials", 0.5, base),
	}
}

func TestDedupe_KeepsHigherScoredDuplicate(t *testing.T) {
	d := newTestDeduplicator(0.8)

	got := d.Dedupe(fiveWithOneDuplicatePair())

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4 (%v)", len(got), ids(got))
	}
	want := []string{"c", "b", "d", "e"}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	d := newTestDeduplicator(0.8)

	once := d.Dedupe(fiveWithOneDuplicatePair())
	twice := d.Dedupe(once)

	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("second pass changed result: %v -> %v", ids(once), ids(twice))
	}
}

func TestDedupe_IndependentOfInputOrder(t *testing.T) {
	d := newTestDeduplicator(0.8)

	articles := fiveWithOneDuplicatePair()
	reversed := make([]model.Article, len(articles))
	for i, a := range articles {
		reversed[len(articles)-1-i] = a
	}

	got1 := ids(d.Dedupe(articles))
	got2 := ids(d.Dedupe(reversed))
	sort.Strings(got1)
	sort.Strings(got2)

	if !reflect.DeepEqual(got1, got2) {
		t.Errorf("survivor sets differ: %v vs %v", got1, got2)
	}
}

func TestDedupe_RepresentativeTieBreaks(t *testing.T) {
	d := newTestDeduplicator(0.8)

	t.Run("earlier publication wins", func(t *testing.T) {
		got := d.Dedupe([]model.Article{
			scored("late", "Markets rally after earnings", 0.5, base.Add(time.Hour)),
			scored("early", "Markets rally after earnings", 0.5, base),
		})
		if len(got) != 1 || got[0].ID != "early" {
			t.Errorf("got %v, want [early]", ids(got))
		}
	})

	t.Run("smaller id wins", func(t *testing.T) {
		got := d.Dedupe([]model.Article{
			scored("z", "Markets rally after earnings", 0.5, base),
			scored("m", "Markets rally after earnings", 0.5, base),
		})
		if len(got) != 1 || got[0].ID != "m" {
			t.Errorf("got %v, want [m]", ids(got))
		}
	})
}

func TestDedupe_SameURL(t *testing.T) {
	d := newTestDeduplicator(0.8)

	a := scored("a", "Completely different headline", 0.2, base)
	b := scored("b", "Nothing in common here", 0.9, base)
	b.URL = a.URL

	got := d.Dedupe([]model.Article{a, b})
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("got %v, want [b]", ids(got))
	}
}

func TestDedupe_KeywordOverlapBlends(t *testing.T) {
	d := newTestDeduplicator(0.6)

	a := scored("a", "Fed signals pause", 0.5, base)
	a.Keywords = []string{"fed", "rates", "inflation", "pause"}
	b := scored("b", "Fed signals rate pause", 0.4, base)
	b.Keywords = []string{"fed", "rates", "inflation", "pause"}

	// title 3/4, keywords 4/4: blended 0.875
	if sim := d.Similarity(a, b); sim != 0.875 {
		t.Errorf("Similarity = %v, want 0.875", sim)
	}
	if got := d.Dedupe([]model.Article{a, b}); len(got) != 1 {
		t.Errorf("expected one survivor, got %v", ids(got))
	}
}

func TestDedupe_SmallInputs(t *testing.T) {
	d := newTestDeduplicator(0)

	if got := d.Dedupe(nil); len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v", got)
	}
	one := []model.Article{scored("a", "Only one", 0.1, base)}
	if got := d.Dedupe(one); !reflect.DeepEqual(ids(got), []string{"a"}) {
		t.Errorf("Dedupe(one) = %v", ids(got))
	}
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(0, 1)
	uf.union(3, 4)
	uf.union(1, 4)

	if uf.find(0) != uf.find(3) {
		t.Error("0 and 3 should share a root")
	}
	if uf.find(2) == uf.find(0) {
		t.Error("2 should be alone")
	}
}
