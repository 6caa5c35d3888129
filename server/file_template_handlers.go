package server

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*
var templateFiles embed.FS

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParsePage parses a page template together with the shared layout. Pages
// fill the layout's "content" block; execution goes through the layout so
// every page carries the navbar and notice banner.
func ParsePage(name string) (*template.Template, error) {
	return template.ParseFS(TemplateFilesFS(), "layout.html", name)
}
