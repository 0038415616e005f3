package exporter

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/seqedit/internal/documents"
	"github.com/ziadkadry99/seqedit/internal/patch"
	"github.com/ziadkadry99/seqedit/internal/progress"
	"github.com/ziadkadry99/seqedit/internal/render"
	"github.com/ziadkadry99/seqedit/internal/seqtext"
)

// Format is an export file format.
type Format string

const (
	FormatMermaid  Format = "mmd"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
)

// ParseFormat accepts a format name or its file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "mmd", "mermaid":
		return FormatMermaid, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown export format %q: must be one of mmd, md, html", s)
}

// Ext returns the file extension for the format, with the dot.
func (f Format) Ext() string { return "." + string(f) }

// Exporter turns documents into files.
type Exporter struct {
	md       goldmark.Markdown
	page     *template.Template
	renderer *render.Adapter
}

// New creates an Exporter. A nil adapter leaves diagrams in HTML exports
// to be drawn by Mermaid in the browser.
func New(renderer *render.Adapter) *Exporter {
	return &Exporter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle("github"),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
		page:     template.Must(template.New("page").Parse(pageTemplate)),
		renderer: renderer,
	}
}

// Export returns doc in the given format.
func (e *Exporter) Export(ctx context.Context, doc *documents.Document, f Format) ([]byte, error) {
	switch f {
	case FormatMermaid:
		return []byte(doc.Content), nil
	case FormatMarkdown:
		return []byte(Markdown(doc)), nil
	case FormatHTML:
		return e.HTML(ctx, doc)
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// Markdown renders doc as a page with a fenced mermaid block and a table
// of its actions.
func Markdown(doc *documents.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Name)
	b.WriteString("```mermaid\n")
	b.WriteString(strings.TrimRight(doc.Content, "\n"))
	b.WriteString("\n```\n")
	b.WriteString(actionTable(doc.Content))
	return b.String()
}

func actionTable(content string) string {
	actions := seqtext.ListActions(content)
	if len(actions) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n## Actions\n\n| # | From | To | Message |\n|---|---|---|---|\n")
	for _, a := range actions {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", a.Index+1, cell(a.From), cell(a.To), cell(a.Message))
	}
	return b.String()
}

// cell escapes text for a GFM table cell.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// pageData holds the data passed to the HTML template.
type pageData struct {
	Title   string
	Diagram template.HTML
	Source  string
	Content template.HTML
}

// HTML renders doc as a standalone page. The diagram is embedded as SVG
// when the renderer succeeds, and left to Mermaid in the browser otherwise.
func (e *Exporter) HTML(ctx context.Context, doc *documents.Document) ([]byte, error) {
	var body strings.Builder
	body.WriteString(actionTable(doc.Content))
	body.WriteString("\n## Source\n\n```mermaid\n")
	body.WriteString(strings.TrimRight(doc.Content, "\n"))
	body.WriteString("\n```\n")

	var htmlBuf bytes.Buffer
	if err := e.md.Convert([]byte(body.String()), &htmlBuf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}

	data := pageData{
		Title:   doc.Name,
		Source:  doc.Content,
		Content: template.HTML(htmlBuf.String()),
	}
	if res := e.renderer.Render(ctx, doc.Content); res.OK {
		data.Diagram = template.HTML(patch.Patch(res.Markup))
	}

	var out bytes.Buffer
	if err := e.page.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return out.Bytes(), nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns a file system friendly name for doc.
func FileName(doc *documents.Document, f Format) string {
	name := strings.Trim(unsafeName.ReplaceAllString(strings.TrimSpace(doc.Name), "-"), "-.")
	if name == "" {
		name = doc.ID
	}
	return strings.ToLower(name) + f.Ext()
}

// WriteAll exports every document into dir, one file each, and returns
// the paths written. Documents whose names collide get a numeric suffix.
func (e *Exporter) WriteAll(ctx context.Context, docs []documents.Document, dir string, f Format, rep progress.Reporter) ([]string, error) {
	if rep == nil {
		rep = progress.Discard{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	rep.Start(len(docs))
	defer rep.Finish()

	used := make(map[string]int)
	var written []string
	for i := range docs {
		doc := &docs[i]
		rep.Update(i+1, doc.Name)

		name := FileName(doc, f)
		if n := used[name]; n > 0 {
			used[name]++
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, f.Ext()), n+1, f.Ext())
		} else {
			used[name] = 1
		}

		data, err := e.Export(ctx, doc, f)
		if err != nil {
			return written, fmt.Errorf("exporting %s: %w", doc.Name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
