package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/feedwise/feedwise/internal/model"
)

// Supported output formats
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatEmail    = "email"
)

// Writer writes rendered digests below a base directory, one directory
// per user.
type Writer struct {
	dir      string
	renderer *Renderer
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string, renderer *Renderer) *Writer {
	return &Writer{dir: dir, renderer: renderer}
}

// ValidateFormats rejects unknown format names
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		switch strings.ToLower(f) {
		case FormatMarkdown, FormatHTML, FormatJSON, FormatEmail:
		default:
			return fmt.Errorf("unknown output format %q (supported: md, html, json, email)", f)
		}
	}
	return nil
}

// Path returns the output path of one format:
// {dir}/{user}/{user}_{YYYYMMDD}.{ext}
func (w *Writer) Path(b model.ArticleBundle, p model.UserProfile, format string) string {
	ext := strings.ToLower(format)
	if ext == FormatEmail {
		ext = "email.json"
	}
	name := fmt.Sprintf("%s_%s.%s", p.ID, b.GeneratedAt.Format("20060102"), ext)
	return filepath.Join(w.dir, p.ID, name)
}

// Write renders every requested format and returns the written paths
func (w *Writer) Write(b model.ArticleBundle, p model.UserProfile, formats []string) ([]string, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(w.dir, p.ID), 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var paths []string
	for _, format := range formats {
		data, err := w.render(b, p, strings.ToLower(format))
		if err != nil {
			return paths, err
		}
		path := w.Path(b, p, format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) render(b model.ArticleBundle, p model.UserProfile, format string) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		s, err := w.renderer.Markdown(b, p)
		return []byte(s), err
	case FormatHTML:
		s, err := w.renderer.HTML(b, p)
		return []byte(s), err
	case FormatJSON:
		return w.renderer.JSON(b, p)
	case FormatEmail:
		msg, err := w.renderer.Email(b, p)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(msg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render email: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
