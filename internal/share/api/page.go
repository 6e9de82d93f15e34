package api

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/KYD-04/Home-Files/internal/ingress"
	"github.com/KYD-04/Home-Files/pkg/share"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageRenderer struct {
	tmpl   *template.Template
	policy ingress.Policy
}

type pageData struct {
	Admin      bool
	Entries    []share.Entry
	Extensions string
	MaxSize    string
}

func newPageRenderer(policy ingress.Policy) *pageRenderer {
	funcs := template.FuncMap{
		"size": func(n *int64) string {
			if n == nil || *n < 0 {
				return "-"
			}
			return humanize.Bytes(uint64(*n))
		},
	}
	tmpl := template.Must(template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	return &pageRenderer{tmpl: tmpl, policy: policy}
}

func (p *pageRenderer) render(w io.Writer, admin bool, entries []share.Entry) error {
	data := pageData{
		Admin:      admin,
		Entries:    entries,
		Extensions: strings.Join(p.policy.AllowedExtensions, ", "),
		MaxSize:    "unlimited",
	}
	if p.policy.MaxSize > 0 {
		data.MaxSize = humanize.Bytes(uint64(p.policy.MaxSize))
	}
	return p.tmpl.ExecuteTemplate(w, "index.html", data)
}
