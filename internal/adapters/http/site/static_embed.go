package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

//go:embed templates/*.html.tmpl
var templateFS embed.FS

// FS returns an http.FileSystem for the page assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Expose an empty FS on error.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

func parseTemplates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("page.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/*.html.tmpl")
}
