// Package frontend embeds the HTML templates and static assets.
package frontend

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// UploadWidgetAsset holds the client-side row templates of the upload widget.
// It uses its own {% %} syntax and is injected into the page verbatim.
const UploadWidgetAsset = "upload-widget.html"

var funcs = template.FuncMap{
	"humanSize": HumanSize,
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// Templates parses every page template together so they share the layout.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static is the static asset tree rooted at static/.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create embedded static filesystem: " + err.Error())
	}
	return http.FS(sub)
}

// UploadWidget returns the widget markup as trusted HTML.
func UploadWidget() (template.HTML, error) {
	b, err := fs.ReadFile(staticFS, "static/"+UploadWidgetAsset)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", UploadWidgetAsset, err)
	}
	return template.HTML(b), nil
}

// HumanSize formats a byte count in binary units, e.g. 1536 -> "1.5 KiB".
func HumanSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
