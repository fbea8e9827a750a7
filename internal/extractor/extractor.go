package extractor

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pattern-repository/internal/models"
)

// DefaultDPI is the resolution hint passed to the OCR engine.
const DefaultDPI = 300

// ErrNoBackend is returned by New when neither extraction backend is supplied.
// With no way to open a PDF at all, no extraction is possible.
var ErrNoBackend = errors.New("extractor: no PDF backend available")

// PageImage is one embedded raster image pulled from a page.
type PageImage struct {
	Data []byte
	Ext  string // file extension without the dot, e.g. "png", "jpg"
}

// Document is an open PDF with page-level text access. Pages are 1-based.
type Document interface {
	PageCount() int
	PageText(pageNr int) (string, error)
	Close() error
}

// RichDocument additionally exposes embedded images and document metadata.
type RichDocument interface {
	Document
	PageImages(pageNr int) ([]PageImage, error)
	Metadata() map[string]string
}

// TextBackend opens documents for text-only extraction.
type TextBackend interface {
	Open(path string) (Document, error)
}

// RichBackend opens documents with direct text and embedded-image access.
type RichBackend interface {
	Open(path string) (RichDocument, error)
}

// OCRBackend recognizes text in a raster image.
type OCRBackend interface {
	Recognize(image []byte, dpi int) (string, error)
}

// Engine extracts text and images from PDF documents. Backend selection is
// capability-based: the rich backend is preferred when present, otherwise the
// text-only backend is used and image extraction becomes a recorded no-op.
// OCR is a second-tier capability checked independently of the backend choice.
type Engine struct {
	rich  RichBackend
	basic TextBackend
	ocr   OCRBackend

	// DPI is the resolution hint for OCR renderings.
	DPI int
}

// New creates an extraction engine over an explicit capability set. Either
// backend may be nil; if both are, extraction is impossible and ErrNoBackend
// is returned. A nil ocr disables the OCR fallback.
func New(rich RichBackend, basic TextBackend, ocr OCRBackend) (*Engine, error) {
	if rich == nil && basic == nil {
		return nil, ErrNoBackend
	}
	return &Engine{
		rich:  rich,
		basic: basic,
		ocr:   ocr,
		DPI:   DefaultDPI,
	}, nil
}

// HasRichBackend reports whether embedded-image access is available.
func (e *Engine) HasRichBackend() bool { return e.rich != nil }

// HasOCR reports whether an OCR capability is available.
func (e *Engine) HasOCR() bool { return e.ocr != nil }

// Extract pulls text and images out of one PDF. It never returns an error:
// a document that cannot be opened yields a result with zero pages and a
// single fatal entry in the error list, and per-page failures are recorded
// as warnings while processing continues. If outputDir is empty, a sibling
// "<stem>_extracted" directory is used.
//
// When extractImages is enabled and the rich backend is present, every
// embedded raster image is written to the output image directory under a
// deterministic "page<NNN>_img<NN>.<ext>" name, so re-running with the same
// document and settings reproduces identical filenames.
func (e *Engine) Extract(path, outputDir string, extractImages, applyOCR bool) *models.ExtractionResult {
	result := &models.ExtractionResult{
		PDFPath: path,
		Errors:  []string{},
	}

	if _, err := os.Stat(path); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("file not found: %s", path))
		return result
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if outputDir == "" {
		outputDir = filepath.Join(filepath.Dir(path), stem+"_extracted")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to create output directory: %v", err))
		return result
	}

	// Open with the rich backend when present, text-only backend otherwise.
	var doc Document
	var richDoc RichDocument
	var err error
	if e.rich != nil {
		richDoc, err = e.rich.Open(path)
		doc = richDoc
	} else {
		doc, err = e.basic.Open(path)
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("extraction failed: %v", err))
		return result
	}
	defer doc.Close()

	result.TotalPages = doc.PageCount()

	var imagesDir string
	if extractImages {
		if richDoc != nil {
			imagesDir = filepath.Join(outputDir, "images")
			if err := os.MkdirAll(imagesDir, 0o755); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("failed to create images directory: %v", err))
				imagesDir = ""
			} else {
				result.ImagesDir = imagesDir
			}
		} else {
			// Documented no-op: the text-only backend has no image access.
			result.Errors = append(result.Errors,
				"image extraction requires the rich backend; skipping images")
		}
	}

	var allText []string

	for pageNr := 1; pageNr <= result.TotalPages; pageNr++ {
		text, err := doc.PageText(pageNr)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("page %d: text extraction failed: %v", pageNr, err))
			text = ""
		}

		// Per-page OCR fallback: only when the page carries no
		// machine-readable text.
		if strings.TrimSpace(text) == "" && applyOCR && e.ocr != nil {
			ocrText, ocrErr := e.ocrPage(richDoc, pageNr)
			if ocrErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("page %d: OCR failed: %v", pageNr, ocrErr))
			} else if ocrText != "" {
				text = ocrText
				result.OCRApplied = true
			}
		}

		if text != "" {
			allText = append(allText, fmt.Sprintf("\n--- Page %d ---\n", pageNr), text)
		}

		if imagesDir != "" {
			n, imgErrs := savePageImages(richDoc, pageNr, imagesDir)
			result.ImagesExtracted += n
			result.Errors = append(result.Errors, imgErrs...)
		}
	}

	if len(allText) > 0 {
		textFile := filepath.Join(outputDir, stem+"_text.txt")
		if err := os.WriteFile(textFile, []byte(strings.Join(allText, "\n")), 0o644); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to save text: %v", err))
		} else {
			result.TextFile = textFile
			result.TextExtracted = true
		}
	}

	result.Metadata = e.documentMetadata(path, richDoc)

	return result
}

// ocrPage runs OCR over the page's raster renderings. Page imagery comes from
// the rich backend's embedded images; scanned documents carry each page as a
// single full-page image. Without the rich backend there is nothing to feed
// the OCR engine.
func (e *Engine) ocrPage(richDoc RichDocument, pageNr int) (string, error) {
	if richDoc == nil {
		return "", errors.New("no page imagery available without the rich backend")
	}
	images, err := richDoc.PageImages(pageNr)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", nil
	}

	var parts []string
	for _, img := range images {
		text, err := e.ocr.Recognize(img.Data, e.DPI)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// savePageImages writes every embedded image on a page to imagesDir using the
// deterministic "page<NNN>_img<NN>.<ext>" naming. A single malformed image
// stream is recorded and does not stop the remaining images.
func savePageImages(richDoc RichDocument, pageNr int, imagesDir string) (int, []string) {
	images, err := richDoc.PageImages(pageNr)
	if err != nil {
		return 0, []string{fmt.Sprintf("page %d: image extraction failed: %v", pageNr, err)}
	}

	var errs []string
	saved := 0
	for imgIndex, img := range images {
		name := fmt.Sprintf("page%03d_img%02d.%s", pageNr, imgIndex+1, img.Ext)
		if err := os.WriteFile(filepath.Join(imagesDir, name), img.Data, 0o644); err != nil {
			errs = append(errs, fmt.Sprintf("page %d: failed to save image %s: %v", pageNr, name, err))
			continue
		}
		saved++
	}
	return saved, errs
}

// documentMetadata collects best-effort document metadata: author/title/
// producer when the rich backend exposes them, plus file size and a content
// hash. Failures contribute an empty map rather than aborting the call.
func (e *Engine) documentMetadata(path string, richDoc RichDocument) map[string]string {
	meta := map[string]string{}
	if richDoc != nil {
		for k, v := range richDoc.Metadata() {
			if v != "" {
				meta[k] = v
			}
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return meta
	}
	meta["file_size"] = fmt.Sprintf("%d", info.Size())

	if hash, err := fileHash(path); err == nil {
		meta["file_hash"] = hash
	}
	return meta
}

// fileHash computes the MD5 hex digest of a file.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ExtractBatch extracts every "*.pdf" under pdfDir into per-document
// subdirectories of outputDir and writes the combined results to
// batch_extraction_results.json. Every document is attempted; a document
// that fails to open contributes an error-only result without affecting the
// rest of the batch.
func (e *Engine) ExtractBatch(pdfDir, outputDir string, extractImages, applyOCR bool) ([]models.ExtractionResult, error) {
	entries, err := os.ReadDir(pdfDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF directory: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	// Initialized so an empty batch still serializes as a list.
	results := []models.ExtractionResult{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(pdfDir, entry.Name())
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		result := e.Extract(path, filepath.Join(outputDir, stem), extractImages, applyOCR)
		results = append(results, *result)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return results, fmt.Errorf("failed to encode batch results: %w", err)
	}
	resultsPath := filepath.Join(outputDir, "batch_extraction_results.json")
	if err := os.WriteFile(resultsPath, data, 0o644); err != nil {
		return results, fmt.Errorf("failed to save batch results: %w", err)
	}

	return results, nil
}

// BatchSummary condenses a batch run into counts plus the first error
// messages, for reporting without aborting on individual failures.
type BatchSummary struct {
	Total     int
	Processed int
	Failed    int
	Errors    []string
}

// Summarize builds a BatchSummary over results, keeping at most maxErrors
// error messages. A document counts as failed when it produced no pages and
// at least one error.
func Summarize(results []models.ExtractionResult, maxErrors int) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.TotalPages == 0 && len(r.Errors) > 0 {
			summary.Failed++
		} else {
			summary.Processed++
		}
		for _, e := range r.Errors {
			if len(summary.Errors) < maxErrors {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %s", filepath.Base(r.PDFPath), e))
			}
		}
	}
	return summary
}
