// Command scorecutter detects the systems and staves of a scanned score.
// It reads one image per page from a directory and prints the detected
// layout, its validation results and the resulting parts.
//
// Usage: scorecutter [options] <page-dir>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	scorecutter "github.com/trfv/score-cutter-sub000"
	"github.com/trfv/score-cutter-sub000/internal/config"
	"github.com/trfv/score-cutter-sub000/model"
	"github.com/trfv/score-cutter-sub000/ocr"
	"github.com/trfv/score-cutter-sub000/report"
)

// output is the JSON document written by -format json
type output struct {
	Layout      model.Layout          `json:"layout"`
	Parts       []model.Part          `json:"parts"`
	Diagnostics []model.Diagnostic    `json:"diagnostics"`
	Warnings    []scorecutter.Warning `json:"warnings,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "config file (TOML)")
	format := flag.String("format", "", "output format: json or html")
	outPath := flag.String("o", "", "write output to file instead of stdout")
	dpi := flag.Float64("dpi", 0, "detection resolution")
	workers := flag.Int("workers", 0, "worker pool size")
	sync := flag.Bool("sync", false, "detect pages one at a time without a worker pool")
	useOCR := flag.Bool("ocr", false, "read staff labels from the page margin (needs -tags ocr)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <page-dir>\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	dir := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// flags given on the command line win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Output.Format = *format
		case "dpi":
			cfg.Detect.DPI = *dpi
		case "workers":
			cfg.Detect.Workers = *workers
		case "sync":
			cfg.Detect.Synchronous = *sync
		case "ocr":
			cfg.Detect.OCR = *useOCR
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	level, _ := cfg.Log.SlogLevel()
	scorecutter.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	det := configure(scorecutter.OpenDir(dir), cfg.Detect)
	if cfg.Detect.OCR {
		client, err := ocr.New(cfg.Detect.OCRLanguage)
		if err != nil {
			log.Fatalf("ocr: %v", err)
		}
		defer client.Close()
		det = det.Labels(client)
	}

	l, warnings, err := det.Detect(ctx)
	if err != nil {
		log.Fatalf("detect: %v", err)
	}
	if len(warnings) > 0 {
		scorecutter.Logger().Warn("some pages were skipped", "warnings", scorecutter.FormatWarnings(warnings))
	}

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("create output: %v", err)
		}
		defer f.Close()
		w = f
	}

	if err := write(w, cfg.Output.Format, filepath.Base(dir), l, warnings); err != nil {
		log.Fatalf("write: %v", err)
	}
}

// configure applies the detection settings to det. Gap heights of 0 are
// not passed on so the detector scales its defaults to the DPI.
func configure(det *scorecutter.Detector, c config.DetectConfig) *scorecutter.Detector {
	det = det.
		DPI(c.DPI).
		Workers(c.Workers).
		Progress(func(done, total int) {
			scorecutter.Logger().Debug("page detected", "done", done, "total", total)
		})
	if c.SystemGap > 0 {
		det = det.SystemGap(c.SystemGap)
	}
	if c.PartGap > 0 {
		det = det.PartGap(c.PartGap)
	}
	if c.Synchronous {
		det = det.Synchronous()
	}
	return det
}

func write(w io.Writer, format, title string, l model.Layout, warnings []scorecutter.Warning) error {
	r := report.New(title, l)

	if format == config.FormatHTML {
		return report.Render(w, r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output{
		Layout:      l,
		Parts:       r.Parts,
		Diagnostics: r.Diagnostics,
		Warnings:    warnings,
	})
}
