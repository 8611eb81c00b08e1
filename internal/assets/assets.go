// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assets extracts optional image artifacts from archived PDFs by
// shelling out to the poppler tools. Asset extraction is best-effort: any
// failure degrades to "asset absent" and never fails the paper.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	binPdftoppm = "pdftoppm"

	// coverDPI is the render resolution for the first-page image.
	coverDPI = "200"
)

// renderer abstracts the external render command for testing.
type renderer interface {
	available() bool
	renderFirstPage(ctx context.Context, pdfPath, outPrefix string) error
}

// popplerRenderer shells out to pdftoppm.
type popplerRenderer struct{}

func (popplerRenderer) available() bool {
	_, err := exec.LookPath(binPdftoppm)
	return err == nil
}

func (popplerRenderer) renderFirstPage(ctx context.Context, pdfPath, outPrefix string) error {
	cmd := exec.CommandContext(ctx, binPdftoppm,
		"-png", "-singlefile", "-f", "1", "-l", "1", "-r", coverDPI,
		pdfPath, outPrefix)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", binPdftoppm, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Extractor renders cover images into an images/ subfolder of the day dir.
type Extractor struct {
	render renderer
	log    *slog.Logger
}

// NewExtractor returns an Extractor backed by the poppler tools.
func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{render: popplerRenderer{}, log: log}
}

// ExtractCover renders page 1 of the PDF to {outputDir}/{stem}_page1.png and
// returns the image path. An empty path means the cover is absent: the
// render tool is missing or the render failed. Neither is an error.
func (e *Extractor) ExtractCover(ctx context.Context, pdfPath, outputDir string) string {
	if !e.render.available() {
		e.log.Warn("pdftoppm not available; skipping cover image extraction")
		return ""
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		e.log.Warn("could not create images folder", "dir", outputDir, "error", err)
		return ""
	}

	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	prefix := filepath.Join(outputDir, stem+"_page1")
	if err := e.render.renderFirstPage(ctx, pdfPath, prefix); err != nil {
		e.log.Warn("cover render failed", "pdf", pdfPath, "error", err)
		return ""
	}

	coverPath := prefix + ".png"
	if _, err := os.Stat(coverPath); err != nil {
		e.log.Warn("cover render produced no output", "pdf", pdfPath)
		return ""
	}
	return coverPath
}
