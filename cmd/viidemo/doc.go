// Command viidemo builds and serves the visual instruction injection demo
// gallery.
//
// Subcommands:
//   - build: render the manifest into a static site under site.output_dir
//   - serve: run the live preview server on server.bind
//   - inspect: list which video each card would preview, per variant
//   - config init|validate: manage the TOML configuration
package main
