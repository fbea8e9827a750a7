package extractor

import (
	"fmt"
	"strconv"

	"github.com/otiai10/gosseract/v2"
)

// TesseractOCR recognizes text in page imagery through the tesseract engine.
// Scanned pattern pages typically carry their content as a single full-page
// raster image, which is what gets fed in here.
type TesseractOCR struct {
	// Languages passed to tesseract; empty means the engine default ("eng").
	Languages []string
}

// Recognize runs tesseract over one image. The dpi hint compensates for
// images that carry no resolution metadata.
func (t TesseractOCR) Recognize(image []byte, dpi int) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			return "", fmt.Errorf("failed to set OCR language: %w", err)
		}
	}
	if dpi > 0 {
		if err := client.SetVariable("user_defined_dpi", strconv.Itoa(dpi)); err != nil {
			return "", fmt.Errorf("failed to set OCR dpi: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
