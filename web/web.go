// Package web embeds the server's HTML templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html static/*
var files embed.FS

// Templates holds the page templates, rooted at the templates directory.
var Templates, _ = fs.Sub(files, "templates")

// Static holds stylesheets and other assets served under /static/.
var Static, _ = fs.Sub(files, "static")
