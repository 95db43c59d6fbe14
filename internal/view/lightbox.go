package view

// Media is what the lightbox needs from a tile it expands.
type Media interface {
	Source() string
	Pause()
}

// Lightbox is the modal collaborator. Calls are fire-and-forget.
type Lightbox interface {
	OpenImagePreview(url, alt string)
	OpenVideoPreview(media Media)
	// Confirm asks the viewer to accept before onAccept runs.
	Confirm(onAccept func())
}

// NopLightbox ignores every request. Confirm never accepts.
type NopLightbox struct{}

func (NopLightbox) OpenImagePreview(string, string) {}

func (NopLightbox) OpenVideoPreview(Media) {}

func (NopLightbox) Confirm(func()) {}
