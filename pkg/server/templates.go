/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: templates.go
Description: HTML templates for the inspector pages. Provides the shared page
frame with breadcrumb headings plus the index, release listing, link listing,
file view, and not-found pages.
*/

package server

import (
	"fmt"
	"html/template"
	"net/http"
)

// Breadcrumbs carries the heading chain rendered at the top of every
// page: project, release, distribution, file. Empty levels are skipped.
type Breadcrumbs struct {
	H2          string
	H2Link      string
	H2Paren     string
	H2ParenLink string
	H3          string
	H3Link      string
	H3Paren     string
	H3ParenLink string
	H4          string
	H4Link      string
	H5          string
	H5Link      string
}

// pageData is the payload handed to every template.
type pageData struct {
	Breadcrumbs
	Links       []string
	Versions    []string
	Code        string
	FileDetails []string
	ReportLink  string
}

const baseHead = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>PyPI Inspector</title>
    <style>
        body { font-family: monospace; margin: 2em; }
        h1 { font-size: 1.4em; }
        h2, h3, h4, h5 { font-size: 1em; margin: 0.2em 0; }
        pre { background: #f6f6f6; padding: 1em; overflow-x: auto; }
        ul { list-style: none; padding-left: 0; }
        li { margin: 0.1em 0; }
        .paren { color: #666; }
    </style>
</head>
<body>
<h1><a href="/">PyPI Inspector</a></h1>
{{if .H2}}<h2><a href="{{.H2Link}}">{{.H2}}</a>{{if .H2Paren}} <span class="paren">(<a href="{{.H2ParenLink}}">{{.H2Paren}}</a>)</span>{{end}}</h2>{{end}}
{{if .H3}}<h3><a href="{{.H3Link}}">{{.H3}}</a>{{if .H3Paren}} <span class="paren">(<a href="{{.H3ParenLink}}">{{.H3Paren}}</a>)</span>{{end}}</h3>{{end}}
{{if .H4}}<h4><a href="{{.H4Link}}">{{.H4}}</a></h4>{{end}}
{{if .H5}}<h5><a href="{{.H5Link}}">{{.H5}}</a></h5>{{end}}
`

const baseFoot = `</body>
</html>
`

const indexTemplate = baseHead + `<p>Inspect the contents of packages published on PyPI.</p>
<form action="/" method="get">
    <label for="project">Project name:</label>
    <input type="text" id="project" name="project">
    <input type="submit" value="Inspect">
</form>
` + baseFoot

const notFoundTemplate = baseHead + `<p>This project could not be found on PyPI.</p>
` + baseFoot

const releasesTemplate = baseHead + `<ul>
{{range .Versions}}<li><a href="./{{.}}/">{{.}}</a></li>
{{end}}</ul>
` + baseFoot

const linksTemplate = baseHead + `<ul>
{{range .Links}}<li><a href="{{.}}">{{.}}</a></li>
{{end}}</ul>
` + baseFoot

const codeTemplate = baseHead + `{{if .FileDetails}}<ul>
{{range .FileDetails}}<li>{{.}}</li>
{{end}}</ul>{{end}}
{{if .ReportLink}}<p><a href="{{.ReportLink}}">Report this file as malicious</a></p>{{end}}
<pre>{{.Code}}</pre>
` + baseFoot

var (
	indexPage    = template.Must(template.New("index").Parse(indexTemplate))
	notFoundPage = template.Must(template.New("404").Parse(notFoundTemplate))
	releasesPage = template.Must(template.New("releases").Parse(releasesTemplate))
	linksPage    = template.Must(template.New("links").Parse(linksTemplate))
	codePage     = template.Must(template.New("code").Parse(codeTemplate))
)

// render writes a template with the given payload and status.
func (s *Server) render(w http.ResponseWriter, status int, tmpl *template.Template, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("Failed to render template")
	}
}

// detailLines formats the file detail block into display strings.
func detailLines(path string, size int, sha256 string, lineCount int, typeHint string) []string {
	return []string{
		fmt.Sprintf("Path: %s", path),
		fmt.Sprintf("Size: %d bytes", size),
		fmt.Sprintf("SHA256: %s", sha256),
		fmt.Sprintf("Lines: %d", lineCount),
		fmt.Sprintf("Type: %s", typeHint),
	}
}
