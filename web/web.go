// Package web embeds the HTML templates and static assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/oksasatya/go-event-sharing/pkg/validation"
)

//go:embed templates static
var content embed.FS

var funcs = template.FuncMap{
	"pathEscape":  url.PathEscape,
	"queryEscape": url.QueryEscape,
	"join":        strings.Join,
	"formatTime": func(t time.Time, layout string) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(layout)
	},
	// fieldError returns the message for field, or "".
	"fieldError": func(errs []validation.ValidationsError, field string) string {
		for _, e := range errs {
			if e.Field == field {
				return e.Message
			}
		}
		return ""
	},
	"contains": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
	// photoURL maps bare file names to bundled images.
	"photoURL": func(p string) string {
		if strings.Contains(p, "://") || strings.HasPrefix(p, "/") {
			return p
		}
		return "/static/img/" + p
	},
	"deref": func(p *int) any {
		if p == nil {
			return ""
		}
		return *p
	},
}

// Templates parses every page and partial. Each file defines its own
// template name, e.g. {{define "events/details"}}.
func Templates() (*template.Template, error) {
	return template.New("web").Funcs(funcs).ParseFS(content, "templates/*.html", "templates/*/*.html")
}

// Static returns the static asset tree served under /static.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
