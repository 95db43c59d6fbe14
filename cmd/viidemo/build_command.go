package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"viidemo/internal/config"
	"viidemo/internal/gallery"
	"viidemo/internal/site"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var bundleMedia bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the gallery into a static site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			output := cfg.Site.OutputDir
			if strings.TrimSpace(outputFlag) != "" {
				if output, err = config.ExpandPath(outputFlag); err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
			}

			container, err := loadGallery(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			renderer, err := site.NewRenderer()
			if err != nil {
				return err
			}
			page := site.NewPage(container, site.Meta{
				Title:       cfg.Site.Title,
				ManifestURL: cfg.Manifest.URL,
				AssetPrefix: site.AssetDir + "/",
				MediaBase:   cfg.Site.BaseURL,
				Debug:       cfg.Logging.Debug,
			})
			result, err := renderer.Write(output, page, site.WriteOptions{
				BundleMedia: bundleMedia || cfg.Site.BundleMedia,
				SourceRoot:  cfg.Site.Root,
			})
			if errors.Is(err, site.ErrLocked) {
				return fmt.Errorf("build %s: another build is writing this directory", output)
			}
			if err != nil {
				return fmt.Errorf("build %s: %w", output, err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Build", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, manifestStatusLine(container, colorize))
			fmt.Fprintln(out, renderStatusLine("Page", statusOK, result.Index, colorize))
			fmt.Fprintln(out, renderStatusLine("Assets", statusOK, fmt.Sprintf("%d written", result.Assets), colorize))
			if bundleMedia || cfg.Site.BundleMedia {
				kind := statusOK
				msg := fmt.Sprintf("%d bundled", result.Media)
				if len(result.Missing) > 0 {
					kind = statusWarn
					msg += fmt.Sprintf(", %d missing", len(result.Missing))
				}
				fmt.Fprintln(out, renderStatusLine("Media", kind, msg, colorize))
			}
			if container.Failed() {
				return errors.New(container.Message())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory (defaults to site.output_dir)")
	cmd.Flags().BoolVar(&bundleMedia, "bundle-media", false, "Copy local media into the output directory")
	return cmd
}

func manifestStatusLine(container *gallery.Container, colorize bool) string {
	switch {
	case container.Failed():
		return renderStatusLine("Manifest", statusError, container.Message(), colorize)
	case container.Message() != "":
		return renderStatusLine("Manifest", statusWarn, container.Message(), colorize)
	}
	groups := container.Groups()
	cards := 0
	for _, g := range groups {
		cards += len(g.Cards)
	}
	return renderStatusLine("Manifest", statusOK, fmt.Sprintf("%d groups, %d cards", len(groups), cards), colorize)
}
