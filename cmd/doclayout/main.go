package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gompdf/doclayout"
	"github.com/gompdf/doclayout/internal/pagination"
	"github.com/gompdf/doclayout/internal/xref"
)

// report is the JSON written for a composed document
type report struct {
	Document   string                     `json:"document"`
	Title      string                     `json:"title"`
	Pages      int                        `json:"pages"`
	Sections   []*pagination.LayoutResult `json:"sections"`
	TOC        []string                   `json:"toc"`
	References []xref.Result              `json:"references"`
}

func main() {
	var (
		inputFile  string
		outputFile string
		measurer   string
		floor      float64
		workers    int
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input document path or URL (.json or .cbor)")
	flag.StringVar(&outputFile, "output", "", "Output layout report path (- for stdout)")
	flag.StringVar(&measurer, "measure", "text", "Block measurement: text or hinted")
	flag.Float64Var(&floor, "floor", 0, "Legibility floor for scaling oversized blocks")
	flag.IntVar(&workers, "workers", 0, "Sections paginated concurrently")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = strings.TrimSuffix(filepath.Base(inputFile), ext) + ".layout.json"
	}

	composer := doclayout.New().
		WithOption(doclayout.WithLogger(logger)).
		WithOption(doclayout.WithDebug(verbose))
	switch measurer {
	case "text":
	case "hinted":
		composer = composer.WithOption(doclayout.WithMeasureHints(true))
	default:
		logger.Fatal().Str("measure", measurer).Msg("unknown measurement mode")
	}
	if floor > 0 {
		composer = composer.WithOption(doclayout.WithLegibilityFloor(floor))
	}
	if workers > 0 {
		composer = composer.WithOption(doclayout.WithWorkers(workers))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := composer.ComposeFile(ctx, inputFile)
	if err != nil {
		logger.Fatal().Err(err).Str("input", inputFile).Msg("composing document")
	}

	if err := writeReport(outputFile, result); err != nil {
		logger.Fatal().Err(err).Str("output", outputFile).Msg("writing report")
	}

	if verbose {
		logger.Info().
			Str("input", inputFile).
			Str("output", outputFile).
			Int("pages", result.Layout.TotalPages).
			Msg("document composed")
	}
}

func writeReport(path string, result *doclayout.Result) (err error) {
	r := report{
		Document:   result.Document.ID,
		Title:      result.Document.Title,
		Pages:      result.Layout.TotalPages,
		Sections:   result.Sections,
		TOC:        result.TOC.Lines(),
		References: result.References,
	}

	var out io.Writer = os.Stdout
	if path != "-" {
		f, createErr := os.Create(path)
		if createErr != nil {
			return fmt.Errorf("failed to create report: %w", createErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close report: %w", cerr)
			}
		}()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
