package site

import (
	"viidemo/internal/assetref"
	"viidemo/internal/gallery"
	"viidemo/internal/view"
)

// Meta carries page-level settings that do not come from the manifest.
type Meta struct {
	Title       string
	ManifestURL string
	// AssetPrefix is prepended to gallery.css and gallery.js.
	AssetPrefix string
	// MediaBase resolves relative media references when it is a remote URL.
	MediaBase string
	// PageID is set by the preview server. Pages with an ID fetch variant
	// rows from the server instead of pre-rendering them.
	PageID string
	Debug  bool
}

// Page is the template model of a whole gallery page.
type Page struct {
	Meta
	Message string
	Failed  bool
	Groups  []GroupPage
}

// GroupPage is one category section.
type GroupPage struct {
	ID         string
	Title      string
	Disclaimer string
	Cards      []CardPage
}

// CardPage is one sample card.
type CardPage struct {
	ID       string
	Empty    bool
	Model    *gallery.ModelRow
	Selected int
	Rows     []RowPage
}

// RowPage is one rendered variant.
type RowPage struct {
	Index  int
	Hidden bool
	Cells  []CellPage
}

// CellPage wraps a view cell with its column and resolved URLs.
type CellPage struct {
	view.Cell
	Column      int
	Src         string
	OriginalSrc string
}

// NewPage snapshots the container into a page model. Without a PageID every
// variant row is rendered and all but the selected one are hidden.
func NewPage(c *gallery.Container, meta Meta) Page {
	page := Page{Meta: meta, Message: c.Message(), Failed: c.Failed()}
	if page.Message != "" {
		return page
	}
	for _, g := range c.Groups() {
		gp := GroupPage{ID: g.ID, Title: g.Title, Disclaimer: g.Disclaimer}
		for _, card := range g.Cards {
			gp.Cards = append(gp.Cards, NewCardPage(card, meta, meta.PageID == ""))
		}
		page.Groups = append(page.Groups, gp)
	}
	return page
}

// NewCardPage builds the template model of a card. With allVariants set every
// variant is rendered; otherwise only the selected one.
func NewCardPage(card *gallery.Card, meta Meta, allVariants bool) CardPage {
	state := card.Snapshot()
	cp := CardPage{ID: state.ID, Empty: state.Empty, Model: state.Model, Selected: state.Selected}
	if state.Empty {
		return cp
	}
	if !allVariants {
		cp.Rows = []RowPage{newRowPage(state.Selected, false, state.Row, meta.MediaBase)}
		return cp
	}
	for i := 0; i < card.VariantCount(); i++ {
		row := state.Row
		if i != state.Selected {
			row = card.RenderVariant(i)
		}
		cp.Rows = append(cp.Rows, newRowPage(i, i != state.Selected, row, meta.MediaBase))
	}
	return cp
}

func newRowPage(index int, hidden bool, row view.Row, base string) RowPage {
	rp := RowPage{Index: index, Hidden: hidden, Cells: make([]CellPage, 0, view.CellCount)}
	for col, cell := range row.Cells {
		cp := CellPage{Cell: cell, Column: col, Src: mediaURL(base, cell.URL)}
		if cell.Original != nil && cell.Original.Allowed {
			cp.OriginalSrc = mediaURL(base, cell.Original.URL)
		}
		rp.Cells = append(rp.Cells, cp)
	}
	return rp
}

func mediaURL(base, ref string) string {
	if ref == "" || !assetref.IsRemote(base) {
		return ref
	}
	return assetref.Resolve(base, ref)
}

// MediaRefs lists the distinct media references the page points at, in page
// order. Remote references are included; callers filter what they can copy.
func (p Page) MediaRefs() []string {
	seen := make(map[string]struct{})
	var refs []string
	add := func(ref string) {
		if ref == "" {
			return
		}
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	for _, g := range p.Groups {
		for _, card := range g.Cards {
			for _, row := range card.Rows {
				for _, cell := range row.Cells {
					add(cell.Src)
					add(cell.OriginalSrc)
				}
			}
		}
	}
	return refs
}
