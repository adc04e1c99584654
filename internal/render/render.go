// Package render turns a personalized bundle into Markdown, HTML, JSON and
// email payloads.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/feedwise/feedwise/internal/model"
)

const dateLayout = "January 02, 2006"

// Renderer renders bundles for one user
type Renderer struct {
	includeFooter bool
	markdown      *template.Template
	html          *htmltemplate.Template
}

// NewRenderer creates a renderer. includeFooter controls the preferences
// section at the end of each digest.
func NewRenderer(includeFooter bool) *Renderer {
	title := cases.Title(language.English)
	funcs := map[string]any{
		"date": func(t time.Time) string { return t.Format(dateLayout) },
		"join": func(values []string) string { return strings.Join(values, ", ") },
		"title": func(s string) string {
			return title.String(s)
		},
	}

	return &Renderer{
		includeFooter: includeFooter,
		markdown:      template.Must(template.New("digest.md").Funcs(funcs).Parse(markdownTemplate)),
		html:          htmltemplate.Must(htmltemplate.New("digest.html").Funcs(funcs).Parse(htmlTemplate)),
	}
}

type section struct {
	Name     string
	Articles []model.Article
}

type view struct {
	Name        string
	GeneratedAt time.Time
	EditorNote  string
	TopStories  []model.Article
	Sections    []section
	Profile     model.UserProfile
	Footer      bool
}

func (r *Renderer) view(b model.ArticleBundle, p model.UserProfile) view {
	v := view{
		Name:        displayName(p),
		GeneratedAt: b.GeneratedAt,
		EditorNote:  b.EditorNote,
		TopStories:  b.TopStories,
		Profile:     p,
		Footer:      r.includeFooter,
	}
	for _, name := range b.CategoryOrder {
		if articles := b.Categorized[name]; len(articles) > 0 {
			v.Sections = append(v.Sections, section{Name: name, Articles: articles})
		}
	}
	return v
}

// Markdown renders the digest as Markdown
func (r *Renderer) Markdown(b model.ArticleBundle, p model.UserProfile) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Execute(&buf, r.view(b, p)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// HTML renders the digest as a standalone HTML page
func (r *Renderer) HTML(b model.ArticleBundle, p model.UserProfile) (string, error) {
	var buf bytes.Buffer
	if err := r.html.Execute(&buf, r.view(b, p)); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// jsonDigest is the JSON document layout
type jsonDigest struct {
	User   model.UserProfile   `json:"user"`
	Bundle model.ArticleBundle `json:"bundle"`
}

// JSON renders the bundle and its profile as indented JSON
func (r *Renderer) JSON(b model.ArticleBundle, p model.UserProfile) ([]byte, error) {
	data, err := json.MarshalIndent(jsonDigest{User: p, Bundle: b}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render json: %w", err)
	}
	return append(data, '\n'), nil
}

// Message is an email delivery payload. Sending it is left to an external
// mail service.
type Message struct {
	To       string `json:"to"`
	From     string `json:"from"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text"`
	UserID   string `json:"user_id"`
}

// DefaultSender is the From address of email payloads
const DefaultSender = "newsletter@example.com"

// Email prepares the email payload for a digest
func (r *Renderer) Email(b model.ArticleBundle, p model.UserProfile) (Message, error) {
	text, err := r.Markdown(b, p)
	if err != nil {
		return Message{}, err
	}
	html, err := r.HTML(b, p)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       p.Email,
		From:     DefaultSender,
		Subject:  "Your Personalized Newsletter - " + b.GeneratedAt.Format(dateLayout),
		BodyHTML: html,
		BodyText: text,
		UserID:   p.ID,
	}, nil
}

func displayName(p model.UserProfile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}

const markdownTemplate = `# {{.Name}}'s Personalized Newsletter
### {{date .GeneratedAt}}
{{if .EditorNote}}
> {{.EditorNote}}
{{end}}
## Today's Top Stories

{{range .TopStories}}### [{{.Title}}]({{.URL}})
{{if .Summary}}{{.Summary}}
{{end}}*Source: {{.Source}}*

{{end}}---

{{range .Sections}}## {{title .Name}}

{{range .Articles}}### [{{.Title}}]({{.URL}})
{{if .Author}}*By {{.Author}}*
{{end}}{{if .Summary}}{{.Summary}}
{{end}}*Source: {{.Source}} | {{date .PublishedAt}}*

{{end}}---

{{end}}{{if .Footer}}## Your Newsletter Preferences

Your newsletter is customized based on your interests:

**Interests:** {{join .Profile.Interests}}

**Preferred Sources:** {{join .Profile.PreferredSources}}

*To update your preferences or unsubscribe, click [here](#).*
{{end}}`

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Name}}'s Newsletter</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; margin: 0 auto; max-width: 800px; padding: 20px; }
        h1, h2, h3 { color: #333; }
        a { color: #0066cc; text-decoration: none; }
        a:hover { text-decoration: underline; }
        hr { border: 0; border-top: 1px solid #ddd; margin: 20px 0; }
        img { max-width: 100%; height: auto; }
        .source { color: #666; font-style: italic; font-size: 0.9em; }
        .note { border-left: 3px solid #ddd; padding-left: 12px; color: #555; }
    </style>
</head>
<body>
    <h1>{{.Name}}'s Personalized Newsletter</h1>
    <h3>{{date .GeneratedAt}}</h3>
{{- if .EditorNote}}
    <blockquote class="note">{{.EditorNote}}</blockquote>
{{- end}}
    <h2>Today's Top Stories</h2>
{{- range .TopStories}}
    <h3><a href="{{.URL}}">{{.Title}}</a></h3>
{{- if .ImageURL}}
    <img src="{{.ImageURL}}" alt="">
{{- end}}
{{- if .Summary}}
    <p>{{.Summary}}</p>
{{- end}}
    <p class="source">Source: {{.Source}}</p>
{{- end}}
    <hr>
{{- range .Sections}}
    <h2>{{title .Name}}</h2>
{{- range .Articles}}
    <h3><a href="{{.URL}}">{{.Title}}</a></h3>
{{- if .Author}}
    <p class="source">By {{.Author}}</p>
{{- end}}
{{- if .Summary}}
    <p>{{.Summary}}</p>
{{- end}}
    <p class="source">Source: {{.Source}} | {{date .PublishedAt}}</p>
{{- end}}
    <hr>
{{- end}}
{{- if .Footer}}
    <h2>Your Newsletter Preferences</h2>
    <p>Your newsletter is customized based on your interests:</p>
    <p><strong>Interests:</strong> {{join .Profile.Interests}}</p>
    <p><strong>Preferred Sources:</strong> {{join .Profile.PreferredSources}}</p>
    <p class="source">To update your preferences or unsubscribe, click <a href="#">here</a>.</p>
{{- end}}
</body>
</html>
`
