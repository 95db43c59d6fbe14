package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"viidemo/internal/config"
	"viidemo/internal/manifest"
	"viidemo/internal/mediapolicy"
)

const refusalLabel = "Refusal"

type inspectRow struct {
	Category   string `json:"category"`
	Group      string `json:"group"`
	Sample     int    `json:"sample"`
	Model      string `json:"model"`
	Baseline   string `json:"baseline"`
	PreviewKey string `json:"preview_key"`
	Preview    string `json:"preview"`
	Original   string `json:"original,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the preview chosen for every sample variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m, err := loadManifest(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			rows := inspectRows(m, cfg.Features.OriginalToggle)
			if jsonOutput {
				return writeJSON(cmd, rows)
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No demos found.")
				return nil
			}
			headers := []string{"Category", "Sample", "Model", "Baseline", "Preview Key", "Preview"}
			if cfg.Features.OriginalToggle {
				headers = append(headers, "Original")
			}
			table := make([][]string, 0, len(rows))
			for _, row := range rows {
				line := []string{row.Category, strconv.Itoa(row.Sample), row.Model, row.Baseline, row.PreviewKey, row.Preview}
				if cfg.Features.OriginalToggle {
					line = append(line, row.Original)
				}
				table = append(table, line)
			}
			aligns := []columnAlignment{alignLeft, alignRight}
			fmt.Fprintln(out, renderTable(headers, table, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func loadManifest(ctx context.Context, cfg *config.Config) (*manifest.Manifest, error) {
	loadCtx, cancel := context.WithTimeout(ctx, cfg.ManifestTimeout())
	defer cancel()
	m, err := manifest.NewLoader(http.DefaultClient, cfg.AssetBase()).Load(loadCtx, cfg.Manifest.URL)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func inspectRows(m *manifest.Manifest, originalToggle bool) []inspectRow {
	rows := []inspectRow{}
	if m == nil {
		return rows
	}
	caser := cases.Title(language.English)
	for _, group := range m.Groups {
		category := caser.String(group.CategoryID())
		for si, sample := range group.Samples {
			for _, v := range sample.Variants {
				baseline := mediapolicy.SelectBaseline(v)
				preview := mediapolicy.SelectPreview(group.CategoryID(), v)
				row := inspectRow{
					Category:   category,
					Group:      group.DisplayTitle(),
					Sample:     si,
					Model:      v.Label(),
					Baseline:   urlOrRefusal(baseline),
					PreviewKey: string(preview.Key),
					Preview:    urlOrRefusal(preview),
				}
				if originalToggle {
					row.Original = originalLabel(mediapolicy.OriginalFor(group.CategoryID(), v))
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func urlOrRefusal(p mediapolicy.Preview) string {
	if p.Refusal {
		return refusalLabel
	}
	return p.URL
}

func originalLabel(o mediapolicy.Original) string {
	switch {
	case o.Allowed:
		return o.URL
	case o.Note != "":
		return "disabled"
	default:
		return "-"
	}
}
