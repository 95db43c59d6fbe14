package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"viidemo/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Assets returns the embedded stylesheet and script, rooted at their names.
func Assets() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("site: static assets missing: " + err.Error())
	}
	return sub
}

// Renderer executes the page templates.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tpl, err := template.New("site").Funcs(template.FuncMap{
		"muteIcon":    view.MuteIcon,
		"aspectStyle": aspectStyle,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// RenderPage writes the full HTML document.
func (r *Renderer) RenderPage(w io.Writer, page Page) error {
	return r.execute(w, "page", page)
}

// RenderRows writes the variant rows of a card, the fragment swapped into the
// card when the viewer picks another model.
func (r *Renderer) RenderRows(w io.Writer, card CardPage) error {
	return r.execute(w, "rows", card.Rows)
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func aspectStyle(ratio float64) template.CSS {
	if !view.ValidAspect(ratio) {
		return ""
	}
	return template.CSS("--refusal-ar: " + strconv.FormatFloat(ratio, 'f', 4, 64))
}
