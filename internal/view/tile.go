package view

import (
	"errors"
	"fmt"
	"sync"
)

// Intent is a UI event routed to a card or tile.
type Intent string

const (
	IntentTogglePlay   Intent = "play"
	IntentToggleMute   Intent = "mute"
	IntentExpand       Intent = "expand"
	IntentZoom         Intent = "zoom"
	IntentViewOriginal Intent = "original"
	IntentViewPreview  Intent = "preview"
	IntentLoopOn       Intent = "loop-on"
	IntentLoopOff      Intent = "loop-off"
)

// Mode is the viewing mode of a tile.
type Mode string

const (
	ModePreview  Mode = "preview"
	ModeOriginal Mode = "original"
)

var (
	// ErrNotVideo is returned when a tile is requested for a non-video cell.
	ErrNotVideo = errors.New("cell has no playable video")
	// ErrOriginalUnavailable is returned when original viewing is not offered.
	ErrOriginalUnavailable = errors.New("original viewing unavailable")
	// ErrUnsupportedIntent is returned for intents a tile cannot handle.
	ErrUnsupportedIntent = errors.New("unsupported intent")
)

// TileState is a snapshot of a tile.
type TileState struct {
	Label    string
	Src      string
	Mode     Mode
	Playback Playback
	Paused   bool
	MuteIcon string
}

// Tile is the controller behind one video cell. State changes are local to
// the tile and are not propagated anywhere else.
type Tile struct {
	mu       sync.Mutex
	label    string
	preview  string
	original *OriginalToggle
	src      string
	mode     Mode
	playback Playback
	paused   bool
	lightbox Lightbox
}

// NewTile builds the controller for a video cell.
func NewTile(cell Cell, lightbox Lightbox) (*Tile, error) {
	if cell.Kind != CellVideo || cell.URL == "" {
		return nil, fmt.Errorf("new tile %q: %w", cell.Label, ErrNotVideo)
	}
	if lightbox == nil {
		lightbox = NopLightbox{}
	}
	return &Tile{
		label:    cell.Label,
		preview:  cell.URL,
		original: cell.Original,
		src:      cell.URL,
		mode:     ModePreview,
		playback: cell.Playback,
		paused:   !cell.Playback.Autoplay,
		lightbox: lightbox,
	}, nil
}

// Source returns the current media source.
func (t *Tile) Source() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.src
}

// Pause stops playback.
func (t *Tile) Pause() {
	t.mu.Lock()
	t.paused = true
	t.mu.Unlock()
}

// State returns a snapshot of the tile.
func (t *Tile) State() TileState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TileState{
		Label:    t.label,
		Src:      t.src,
		Mode:     t.mode,
		Playback: t.playback,
		Paused:   t.paused,
		MuteIcon: MuteIcon(t.playback.Muted),
	}
}

// TogglePlay flips play/pause. Tiles with native controls leave playback to
// the controls and report false.
func (t *Tile) TogglePlay() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.playback.Controls {
		return false
	}
	t.paused = !t.paused
	return true
}

// ToggleMute flips the muted flag and returns the new value.
func (t *Tile) ToggleMute() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playback.Muted = !t.playback.Muted
	return t.playback.Muted
}

// Expand opens the tile in the video lightbox.
func (t *Tile) Expand() {
	t.lightbox.OpenVideoPreview(t)
}

// RequestOriginal asks the lightbox for confirmation and switches to the
// original source once accepted.
func (t *Tile) RequestOriginal() error {
	t.mu.Lock()
	original := t.original
	t.mu.Unlock()
	if original == nil || !original.Allowed || original.URL == "" {
		return ErrOriginalUnavailable
	}
	t.lightbox.Confirm(func() { t.showOriginal(original.URL) })
	return nil
}

// ShowPreview restores the preview source and playback flags.
func (t *Tile) ShowPreview() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = ModePreview
	t.src = t.preview
	t.playback = PreviewPlayback()
	t.paused = false
}

// SetLoop toggles looping. Only the original mode exposes a loop control.
func (t *Tile) SetLoop(loop bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode != ModeOriginal {
		return fmt.Errorf("set loop in %s mode: %w", t.mode, ErrUnsupportedIntent)
	}
	t.playback.Loop = loop
	return nil
}

// Dispatch applies a UI intent to the tile.
func (t *Tile) Dispatch(intent Intent) error {
	switch intent {
	case IntentTogglePlay:
		t.TogglePlay()
	case IntentToggleMute:
		t.ToggleMute()
	case IntentExpand:
		t.Expand()
	case IntentViewOriginal:
		return t.RequestOriginal()
	case IntentViewPreview:
		t.ShowPreview()
	case IntentLoopOn:
		return t.SetLoop(true)
	case IntentLoopOff:
		return t.SetLoop(false)
	default:
		return fmt.Errorf("tile %q: %w: %s", t.label, ErrUnsupportedIntent, intent)
	}
	return nil
}

func (t *Tile) showOriginal(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = ModeOriginal
	t.src = url
	t.playback = OriginalPlayback()
	t.paused = true
}

// MuteIcon returns the icon class of the mute button.
func MuteIcon(muted bool) string {
	if muted {
		return "fa-volume-off"
	}
	return "fa-volume-up"
}
