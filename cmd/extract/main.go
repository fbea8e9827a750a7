package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"pattern-repository/internal/extractor"
)

const maxReportedErrors = 10

func main() {
	_ = godotenv.Load()

	pdfPath := flag.String("pdf", "", "Path to a PDF file or a directory of PDFs (required)")
	outputDir := flag.String("output", "", "Output directory (default: <stem>_extracted next to the input)")
	noImages := flag.Bool("no-images", false, "Skip image extraction")
	noOCR := flag.Bool("no-ocr", false, "Skip OCR fallback for pages without text")
	dpi := flag.Int("dpi", extractor.DefaultDPI, "Resolution hint for OCR")
	lang := flag.String("lang", getenv("OCR_LANG", ""), "OCR language (default: engine default)")
	backend := flag.String("backend", "rich", "Extraction backend: rich (images + metadata) or basic (text only)")
	flag.Parse()

	if *pdfPath == "" {
		log.Fatal("PDF path is required")
	}

	info, err := os.Stat(*pdfPath)
	if err != nil {
		log.Fatalf("Input does not exist: %s", *pdfPath)
	}

	// Capability set: rich backend preferred, text-only fallback, OCR when
	// not disabled.
	var ocr extractor.OCRBackend
	if !*noOCR {
		var tess extractor.TesseractOCR
		if *lang != "" {
			tess.Languages = []string{*lang}
		}
		ocr = tess
	}
	var engine *extractor.Engine
	switch *backend {
	case "rich":
		engine, err = extractor.New(extractor.PDFCPUBackend{}, extractor.BasicBackend{}, ocr)
	case "basic":
		engine, err = extractor.New(nil, extractor.BasicBackend{}, ocr)
	default:
		log.Fatalf("Unknown backend %q (want rich or basic)", *backend)
	}
	if err != nil {
		log.Fatalf("Failed to create extraction engine: %v", err)
	}
	engine.DPI = *dpi

	if info.IsDir() {
		runBatch(engine, *pdfPath, *outputDir, !*noImages, !*noOCR)
		return
	}

	result := engine.Extract(*pdfPath, *outputDir, !*noImages, !*noOCR)
	log.Printf("Extraction complete:")
	log.Printf("  Pages: %d", result.TotalPages)
	log.Printf("  Text extracted: %v", result.TextExtracted)
	log.Printf("  Images extracted: %d", result.ImagesExtracted)
	log.Printf("  OCR applied: %v", result.OCRApplied)
	for _, e := range result.Errors {
		log.Printf("  Error: %s", e)
	}
	if result.TotalPages == 0 && len(result.Errors) > 0 {
		os.Exit(1)
	}
}

func runBatch(engine *extractor.Engine, pdfDir, outputDir string, extractImages, applyOCR bool) {
	if outputDir == "" {
		outputDir = getenv("EXTRACT_OUTPUT", "extracted")
	}

	results, err := engine.ExtractBatch(pdfDir, outputDir, extractImages, applyOCR)
	if err != nil {
		log.Fatalf("Batch extraction failed: %v", err)
	}

	summary := extractor.Summarize(results, maxReportedErrors)
	log.Printf("Batch complete: %d documents (%d processed, %d failed)",
		summary.Total, summary.Processed, summary.Failed)
	for _, e := range summary.Errors {
		log.Printf("  %s", e)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
