// Package site renders a gallery container to HTML.
//
// Pages are produced from html/template sources embedded in the binary along
// with gallery.css and gallery.js, which realize the lightbox, the confirm
// modal and the per-tile controls in the browser. Static builds pre-render
// every variant row and toggle them client-side; pages served by the preview
// server render only the selected row and fetch the others on demand.
package site
