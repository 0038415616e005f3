package exporter

// pageTemplate is the html/template for an exported diagram page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font: 15px/1.5 system-ui, sans-serif; color: #1f2328; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #d0d7de; padding: 4px 10px; text-align: left; }
    pre { padding: 12px; border-radius: 6px; overflow: auto; background: #f6f8fa; }
    figure { margin: 1rem 0; overflow: auto; }
  </style>
{{- if not .Diagram}}
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
  <script>mermaid.initialize({ startOnLoad: true });</script>
{{- end}}
</head>
<body>
  <h1>{{.Title}}</h1>
  <figure class="diagram">
{{- if .Diagram}}
    {{.Diagram}}
{{- else}}
    <div class="mermaid">{{.Source}}</div>
{{- end}}
  </figure>
  <article class="page-content">
    {{.Content}}
  </article>
</body>
</html>`
