package cache

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feedwise/feedwise/internal/model"
)

func TestKey(t *testing.T) {
	a := Key("analysis", "id-1", "body")
	b := Key("analysis", "id-1", "body")
	c := Key("analysis", "id-1body")

	if a != b {
		t.Error("Key is not stable")
	}
	if a == c {
		t.Error("Key parts must be separated")
	}
	if !strings.HasPrefix(a, "feedwise-analysis-v1-") {
		t.Errorf("unexpected key %q", a)
	}
}

func TestNew(t *testing.T) {
	if c := New(model.CacheConfig{Enabled: false}); c != nil {
		t.Errorf("disabled cache = %T, want nil", c)
	}
	if _, ok := New(model.CacheConfig{Enabled: true}).(*MemoryCache); !ok {
		t.Error("cache without dir should be memory only")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir()}).(*LayeredCache); !ok {
		t.Error("cache with dir should be layered")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) found a value")
	}

	_ = c.Set("k", []byte("v"), 0)
	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	_ = c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Get after Delete found a value")
	}
}

func TestDiskCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("k", []byte("value"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, ok := c.Get("k"); !ok || string(got) != "value" {
		t.Errorf("Get(k) = %q, %v", got, ok)
	}

	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestDiskCache_ExpiryAndPrune(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewDiskCache(dir, time.Hour)
	c.now = func() time.Time { return now }

	_ = c.Set("old", []byte("x"), time.Minute)
	_ = c.Set("fresh", []byte("y"), 2*time.Hour)

	now = now.Add(time.Hour)

	removed, err := c.Prune()
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry was pruned")
	}
	if _, ok := c.Get("old"); ok {
		t.Error("expired entry still readable")
	}
}

func TestDiskCache_PruneMissingDir(t *testing.T) {
	c := NewDiskCache(filepath.Join(t.TempDir(), "nope"), time.Hour)
	if n, err := c.Prune(); err != nil || n != 0 {
		t.Errorf("Prune() = %d, %v", n, err)
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	memory := NewMemoryCache(time.Minute, time.Minute)
	disk := NewDiskCache(t.TempDir(), time.Hour)
	c := NewLayeredCache(memory, disk)

	_ = disk.Set("k", []byte("v"), 0)

	if got, ok := c.Get("k"); !ok || string(got) != "v" {
		t.Fatalf("Get(k) = %q, %v", got, ok)
	}
	if _, ok := memory.Get("k"); !ok {
		t.Error("value was not promoted to memory")
	}

	if err := c.Clear(); err != nil {
		t.Errorf("Clear() error = %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("value survived Clear")
	}
}

type payload struct {
	Name  string
	Count int
}

func TestMemo_ComputesOnce(t *testing.T) {
	m := NewMemo[payload](nil, 0)
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Do("a", func() (payload, error) {
				calls.Add(1)
				time.Sleep(5 * time.Millisecond)
				return payload{Name: "a", Count: 1}, nil
			})
			if err != nil || got.Name != "a" {
				t.Errorf("Do() = %+v, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("compute ran %d times, want 1", n)
	}
}

func TestMemo_UsesBackingStore(t *testing.T) {
	store := NewMemoryCache(time.Minute, time.Minute)

	first := NewMemo[payload](store, 0)
	if _, err := first.Do("k", func() (payload, error) { return payload{Name: "stored", Count: 2}, nil }); err != nil {
		t.Fatal(err)
	}

	second := NewMemo[payload](store, 0)
	got, err := second.Do("k", func() (payload, error) {
		t.Error("compute should not run when the store has the value")
		return payload{}, nil
	})
	if err != nil || got.Name != "stored" || got.Count != 2 {
		t.Errorf("Do() = %+v, %v", got, err)
	}

	hits, misses := second.Stats()
	if hits != 1 || misses != 0 {
		t.Errorf("Stats() = %d hits, %d misses", hits, misses)
	}
}

func TestMemo_ErrorsAreNotStored(t *testing.T) {
	store := NewMemoryCache(time.Minute, time.Minute)
	m := NewMemo[payload](store, 0)

	wantErr := errors.New("boom")
	if _, err := m.Do("k", func() (payload, error) { return payload{}, wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Do() error = %v, want %v", err, wantErr)
	}
	if _, ok := store.Get("k"); ok {
		t.Error("failed computation was stored")
	}
}
