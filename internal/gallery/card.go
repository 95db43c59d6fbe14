package gallery

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"viidemo/internal/manifest"
	"viidemo/internal/textutil"
	"viidemo/internal/view"
)

// ErrEmptyCard is returned when an intent targets a card without variants.
var ErrEmptyCard = errors.New("card has no variants")

// ModelOption is one entry of the model selector.
type ModelOption struct {
	Index    int
	Label    string
	Selected bool
}

// ModelRow is the model header of a card. Options is empty when the card has
// a single labeled variant, in which case only the pill is shown.
type ModelRow struct {
	Pill    string
	Options []ModelOption
}

// HasSelector reports whether the row offers a variant choice.
func (m *ModelRow) HasSelector() bool {
	return m != nil && len(m.Options) > 0
}

// CardState is a point-in-time copy of a card.
type CardState struct {
	ID       string
	Empty    bool
	Model    *ModelRow
	Selected int
	Prompt   string
	Row      view.Row
}

// Card is the view of one sample.
type Card struct {
	ID         string
	categoryID string
	sample     manifest.Sample
	lightbox   view.Lightbox
	original   bool
	model      *ModelRow

	mu       sync.Mutex
	selected int
	prompt   string
	aspects  map[string]float64
	row      view.Row
	tiles    map[int]*view.Tile
}

// CardID derives the stable identity of the card for sample si of group gi.
func CardID(gi int, groupID string, si int) string {
	return fmt.Sprintf("%d-%s-%d", gi, textutil.SanitizeToken(groupID), si)
}

func newCard(id, categoryID string, sample manifest.Sample, lightbox view.Lightbox, original bool) *Card {
	if lightbox == nil {
		lightbox = view.NopLightbox{}
	}
	c := &Card{
		ID:         id,
		categoryID: categoryID,
		sample:     sample,
		lightbox:   lightbox,
		original:   original,
		model:      modelRow(sample.Variants),
	}
	c.renderLocked()
	return c
}

func modelRow(variants []manifest.Variant) *ModelRow {
	switch {
	case len(variants) > 1:
		row := &ModelRow{Pill: "Model", Options: make([]ModelOption, len(variants))}
		for i, v := range variants {
			row.Options[i] = ModelOption{Index: i, Label: v.Label(), Selected: i == 0}
		}
		return row
	case len(variants) == 1 && variants[0].HasLabel():
		return &ModelRow{Pill: "Model · " + variants[0].Label()}
	default:
		return nil
	}
}

// Empty reports whether the sample had no variants.
func (c *Card) Empty() bool {
	return len(c.sample.Variants) == 0
}

// CategoryID returns the normalized category the card belongs to.
func (c *Card) CategoryID() string {
	return c.categoryID
}

// VariantCount returns the number of selectable variants.
func (c *Card) VariantCount() int {
	return len(c.sample.Variants)
}

// Row returns the currently rendered row.
func (c *Card) Row() view.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.row
}

// Selected returns the selected variant index.
func (c *Card) Selected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// SelectVariant re-renders the card for variant i using the prompt text known
// so far. An out-of-range index falls back to the first variant.
func (c *Card) SelectVariant(i int) view.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.sample.Variants) {
		i = 0
	}
	c.selected = i
	c.renderLocked()
	return c.row
}

// RenderVariant renders variant i without changing the selection.
func (c *Card) RenderVariant(i int) view.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.sample.Variants) {
		return view.Row{}
	}
	return c.renderVariantLocked(i)
}

// Snapshot copies the card state.
func (c *Card) Snapshot() CardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := CardState{
		ID:       c.ID,
		Empty:    c.Empty(),
		Selected: c.selected,
		Prompt:   c.prompt,
		Row:      c.row,
	}
	if c.model != nil {
		model := &ModelRow{Pill: c.model.Pill, Options: make([]ModelOption, len(c.model.Options))}
		for i, opt := range c.model.Options {
			opt.Selected = i == c.selected
			model.Options[i] = opt
		}
		if len(model.Options) == 0 {
			model.Options = nil
		}
		state.Model = model
	}
	return state
}

// Dispatch routes a UI intent to the cell in column col. Image cells accept
// only zoom; video cells hand the intent to their tile.
func (c *Card) Dispatch(col int, intent view.Intent) error {
	if c.Empty() {
		return fmt.Errorf("card %s: %w", c.ID, ErrEmptyCard)
	}
	if col < 0 || col >= view.CellCount {
		return fmt.Errorf("card %s: column %d out of range", c.ID, col)
	}

	c.mu.Lock()
	cell := c.row.Cells[col]
	var (
		tile *view.Tile
		err  error
	)
	if cell.Kind == view.CellVideo {
		tile = c.tiles[col]
		if tile == nil {
			tile, err = view.NewTile(cell, c.lightbox)
			if err == nil {
				c.tiles[col] = tile
			}
		}
	}
	c.mu.Unlock()

	switch cell.Kind {
	case view.CellImage:
		if intent != view.IntentZoom {
			return fmt.Errorf("card %s column %d: %w: %s", c.ID, col, view.ErrUnsupportedIntent, intent)
		}
		c.lightbox.OpenImagePreview(cell.URL, cell.Alt)
		return nil
	case view.CellVideo:
		if err != nil {
			return err
		}
		return tile.Dispatch(intent)
	default:
		return fmt.Errorf("card %s column %d: %w: %s", c.ID, col, view.ErrUnsupportedIntent, intent)
	}
}

// Tile returns the controller of the video cell in column col, if any.
func (c *Card) Tile(col int) (*view.Tile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tile, ok := c.tiles[col]
	return tile, ok
}

// applyPrompt stores the resolved prompt and re-renders whichever variant is
// selected now. The latest call wins.
func (c *Card) applyPrompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = text
	c.renderLocked()
}

func (c *Card) applyAspect(url string, ratio float64) {
	if url == "" || !view.ValidAspect(ratio) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	next := make(map[string]float64, len(c.aspects)+1)
	maps.Copy(next, c.aspects)
	next[url] = ratio
	c.aspects = next
	c.renderLocked()
}

func (c *Card) renderLocked() {
	c.tiles = make(map[int]*view.Tile)
	if c.Empty() {
		c.row = view.Row{}
		return
	}
	c.row = c.renderVariantLocked(c.selected)
}

func (c *Card) renderVariantLocked(i int) view.Row {
	return view.Render(c.sample, c.sample.Variants[i], c.prompt, c.categoryID, view.Options{
		Aspects:        c.aspects,
		OriginalToggle: c.original,
	})
}
