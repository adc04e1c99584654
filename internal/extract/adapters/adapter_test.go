package adapters

import (
	"strings"
	"testing"
)

const techcrunchPage = `
<html>
<head><title>Startup raises funding</title></head>
<body>
  <nav><p>Navigation menu entries that should never be used</p></nav>
  <div class="article-content">
    <p>The startup announced a new funding round on Monday.</p>
    <p>Investors said the AI product is growing quickly.</p>
    <p>Share</p>
  </div>
</body>
</html>`

func TestRegistry_FindAdapter(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		url  string
		want string
	}{
		{"https://techcrunch.com/2024/01/01/story", "techcrunch"},
		{"https://www.bbc.co.uk/news/world-1", "bbc"},
		{"https://feeds.arstechnica.com/x", "arstechnica"},
		{"https://notbbc.com/news", "generic"},
		{"https://example.org/post", "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := r.FindAdapter(tt.url).Name(); got != tt.want {
				t.Errorf("FindAdapter(%q) = %s, want %s", tt.url, got, tt.want)
			}
		})
	}
}

func TestRegistry_ExtractSite(t *testing.T) {
	r := NewRegistry()

	body, err := r.Extract(techcrunchPage, "https://techcrunch.com/story")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	paragraphs := strings.Split(body, "\n\n")
	if len(paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(paragraphs), body)
	}
	if strings.Contains(body, "Navigation") {
		t.Errorf("body contains navigation text: %q", body)
	}
	if strings.Contains(body, "Share") {
		t.Errorf("body contains short chrome text: %q", body)
	}
}

func TestRegistry_ExtractFallsBackToGeneric(t *testing.T) {
	r := NewRegistry()

	page := `<html><body><main>
		<p>First paragraph of a story hosted on an unusual layout.</p>
		<p>Second paragraph continues the reporting in detail.</p>
		<p>Third paragraph wraps up with a quote from officials.</p>
	</main><footer><p>Copyright notice and legal boilerplate text.</p></footer></body></html>`

	body, err := r.Extract(page, "https://www.bbc.com/news/1")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.HasPrefix(body, "First paragraph") {
		t.Errorf("unexpected body: %q", body)
	}
	if strings.Contains(body, "Copyright") {
		t.Errorf("footer leaked into body: %q", body)
	}
}

func TestRegistry_ExtractEmpty(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Extract(`<html><body><div>tiny</div></body></html>`, "https://example.com"); err == nil {
		t.Error("expected error for page without article body")
	}
}

func TestRegistry_ExtractFallsBackToReadability(t *testing.T) {
	r := NewRegistry()

	sentence := "Engineers at the observatory confirmed the comet will pass close to Earth next spring, and amateur astronomers are preparing to photograph it. "
	page := `<html><head><title>Comet</title></head><body><div class="story"><div>` +
		strings.Repeat(sentence, 4) + `</div></div></body></html>`

	body, err := r.Extract(page, "https://example.com/comet")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !strings.Contains(body, "comet will pass close to Earth") {
		t.Errorf("unexpected body: %q", body)
	}
}
