// Command pagelens renders document analysis output as a visual
// overlay: each detected item drawn as a colored box on the rendered
// source page, written to a single self-contained HTML file.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/pagelens"
	"github.com/tsawler/pagelens/annotate"
	"github.com/tsawler/pagelens/browser"
	"github.com/tsawler/pagelens/internal/env"
	"github.com/tsawler/pagelens/internal/version"
	"github.com/tsawler/pagelens/logging"
	"github.com/tsawler/pagelens/model"
	"github.com/tsawler/pagelens/ocr"
	"github.com/tsawler/pagelens/overlay"
)

var (
	flagOutput      string
	flagMode        string
	flagScale       float64
	flagTypes       []string
	flagNoFurniture bool
	flagOpen        bool
	flagWorkers     int
	flagAnnotate    bool
	flagOCRCheck    bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "pagelens <analysis.json | document.pdf>",
	Short: "Visualize document analysis output as page overlays",
	Long: `pagelens turns document analysis JSON into a visual overlay: every
detected item (text, headings, tables, pictures, lists) drawn as a
colored box on top of the rendered source page.

The source PDF is discovered next to the analysis file automatically.
Without one, the overlay is drawn on blank pages.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	env.Load()

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pagelens %s\n", version.Version))

	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: input name with .html or .md)")
	rootCmd.Flags().StringVar(&flagMode, "mode", "overlay", "output mode: overlay or native")
	rootCmd.Flags().Float64Var(&flagScale, "scale", env.Float("PAGELENS_SCALE", 1.0), "display scale factor (1.0 = 72 DPI)")
	rootCmd.Flags().StringSliceVar(&flagTypes, "types", nil, "item kinds to show (text,heading,table,picture,list); default all")
	rootCmd.Flags().BoolVar(&flagNoFurniture, "no-furniture", false, "hide page headers and footers")
	rootCmd.Flags().BoolVar(&flagOpen, "open", false, "open the result in the default browser")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", env.Int("PAGELENS_WORKERS", 0), "page render pool size (0 = 80% of CPUs)")
	rootCmd.Flags().BoolVar(&flagAnnotate, "annotate", false, "also write annotated page PNGs next to the output")
	rootCmd.Flags().BoolVar(&flagOCRCheck, "ocr-check", env.Bool("PAGELENS_OCR_CHECK", false), "cross-check empty pages for visible text (needs the ocr build tag)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose progress output")
}

func run(cmd *cobra.Command, args []string) error {
	input := args[0]
	log := logging.NewConsole(os.Stderr, flagVerbose)
	ctx := context.Background()

	viewer := pagelens.Open(input).
		Scale(flagScale).
		Workers(flagWorkers).
		WithLogger(log)

	if !flagNoFurniture {
		viewer = viewer.IncludeFurniture()
	}

	if len(flagTypes) > 0 {
		kinds, err := parseKinds(flagTypes)
		if err != nil {
			return err
		}
		viewer = viewer.Kinds(kinds...)
	}

	if flagOCRCheck {
		client, err := ocr.New()
		if err != nil {
			log.Warnf("ocr check unavailable: %v", err)
		} else {
			defer client.Close()
			viewer = viewer.WithRecognizer(client)
		}
	}

	switch flagMode {
	case "overlay":
		return runOverlay(ctx, viewer, input, log)
	case "native":
		return runNative(ctx, viewer, input, log)
	default:
		return fmt.Errorf("unknown mode %q: want overlay or native", flagMode)
	}
}

func runOverlay(ctx context.Context, viewer *pagelens.Viewer, input string, log logging.Logger) error {
	out := flagOutput
	if out == "" {
		out = outputName(input, ".html")
	}

	art, warnings, err := viewer.Artifact(ctx)
	if err != nil {
		return err
	}
	if len(warnings) > 0 {
		log.Warnf("%d warning(s):\n%s", len(warnings), pagelens.FormatWarnings(warnings))
	}

	if err := overlay.WriteHTMLFile(out, art); err != nil {
		return err
	}
	log.Infof("wrote %s", out)

	if flagAnnotate {
		pages, err := annotate.Artifact(art, annotate.Options{DrawLabels: true})
		if err != nil {
			return fmt.Errorf("annotate pages: %w", err)
		}
		stem := strings.TrimSuffix(out, filepath.Ext(out))
		for i, data := range pages {
			name := fmt.Sprintf("%s-page-%d.png", stem, art.Pages[i].PageNo)
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			log.Debugf("wrote %s", name)
		}
		log.Infof("wrote %d annotated page(s)", len(pages))
	}

	if flagOpen {
		browser.Open(out, log)
	}
	return nil
}

func runNative(ctx context.Context, viewer *pagelens.Viewer, input string, log logging.Logger) error {
	out := flagOutput
	if out == "" {
		out = outputName(input, ".md")
	}

	md, warnings, err := viewer.Native(ctx)
	if err != nil {
		return err
	}
	if len(warnings) > 0 {
		log.Warnf("%d warning(s):\n%s", len(warnings), pagelens.FormatWarnings(warnings))
	}

	if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	log.Infof("wrote %s", out)

	if flagOpen {
		browser.Open(out, log)
	}
	return nil
}

func parseKinds(names []string) ([]model.Kind, error) {
	kinds := make([]model.Kind, 0, len(names))
	for _, name := range names {
		k, err := model.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("--types: %w", err)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func outputName(input, ext string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
