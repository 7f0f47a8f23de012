package theme

import (
	"fmt"
	"html/template"
)

// Builtin returns the registry of themes shipped with the binary. The
// "minimal" theme is the default applied when a manifest omits the theme
// block.
func Builtin() *Registry {
	r, err := NewRegistry(
		mustTheme("minimal", "Single-column layout with no chrome", minimalCSS),
		mustTheme("mkdocs", "Sidebar navigation, light chrome", mkdocsCSS),
		mustTheme("readthedocs", "Read-the-Docs styled sidebar layout", readthedocsCSS),
	)
	if err != nil {
		// Builtin names are literals; a collision is a bug in this file.
		panic(err)
	}
	return r
}

func mustTheme(name, description, css string) *Theme {
	tmpl := template.Must(template.New(name).Parse(fmt.Sprintf(pageLayout, css)))
	return &Theme{Name: name, Description: description, Page: tmpl}
}

// pageLayout is the shared page skeleton; the single %s slot receives the
// theme stylesheet. All themes use the same PageData contract.
const pageLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - {{.Site.Name}}</title>
{{- if .Site.Description}}
<meta name="description" content="{{.Site.Description}}">
{{- end}}
{{- range .Site.Authors}}
<meta name="author" content="{{.}}">
{{- end}}
<style>%s</style>
{{- if .Highlight}}
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/styles/default.min.css">
<script src="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/highlight.min.js"></script>
{{- range .HighlightLanguages}}
<script src="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/languages/{{.}}.min.js"></script>
{{- end}}
<script>window.addEventListener("DOMContentLoaded",function(){hljs.highlightAll()});</script>
{{- end}}
{{- if .Site.Analytics}}
<script async src="https://www.googletagmanager.com/gtag/js?id={{index .Site.Analytics 0}}"></script>
<script>window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag("js",new Date());gtag("config","{{index .Site.Analytics 0}}");</script>
{{- end}}
</head>
<body>
<header>
<a class="site-title" href="{{.PathToRoot}}index.html">{{.Site.Name}}</a>
{{- if .Site.RepoURL}}
<a class="repo-link" href="{{.Site.RepoURL}}">Repository</a>
{{- end}}
</header>
<nav>{{.NavHTML}}</nav>
<main>
{{- if .Breadcrumb}}
<p class="breadcrumb">{{range $i, $c := .Breadcrumb}}{{if $i}} &raquo; {{end}}{{$c}}{{end}}</p>
{{- end}}
<article>{{.Content}}</article>
<footer>
{{- if .EditURL}}
<a class="edit-link" href="{{.EditURL}}">Edit this page</a>
{{- end}}
{{- if .HasLastModified}}
<span class="last-modified">Last updated {{.LastModified.Format "2006-01-02"}}</span>
{{- end}}
</footer>
</main>
</body>
</html>
`

const minimalCSS = `body{font-family:sans-serif;max-width:48rem;margin:0 auto;padding:1rem;line-height:1.6}
nav ul{list-style:none;padding-left:1rem}
header{margin-bottom:1rem}
.breadcrumb{color:#666}
li.active>a{font-weight:bold}`

const mkdocsCSS = `body{font-family:sans-serif;margin:0;display:grid;grid-template-columns:16rem 1fr;line-height:1.6}
header{grid-column:1/3;background:#2980b9;color:#fff;padding:.75rem 1rem}
header a{color:#fff;text-decoration:none;margin-right:1rem}
nav{border-right:1px solid #ddd;padding:1rem}
nav ul{list-style:none;padding-left:1rem}
main{padding:1rem 2rem}
li.active>a{font-weight:bold}
.breadcrumb{color:#666}`

const readthedocsCSS = `body{font-family:"Lato",sans-serif;margin:0;display:grid;grid-template-columns:18rem 1fr;line-height:1.6}
header{grid-column:1/3;background:#2c3e50;color:#fff;padding:.75rem 1rem}
header a{color:#fff;text-decoration:none;margin-right:1rem}
nav{background:#343131;color:#d9d9d9;padding:1rem;min-height:100vh}
nav a{color:#d9d9d9;text-decoration:none}
nav ul{list-style:none;padding-left:1rem}
li.active>a{color:#fff;font-weight:bold}
main{padding:1rem 3rem;max-width:52rem}
.breadcrumb{color:#999}`
