package extractor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPUBackend is the rich extraction backend: direct text access via
// content streams plus embedded image and Info-dict metadata access.
type PDFCPUBackend struct{}

// Open reads, validates and optimizes the PDF. Optimization is required for
// image object lookup.
func (PDFCPUBackend) Open(path string) (RichDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	return &pdfcpuDocument{f: f, ctx: ctx}, nil
}

type pdfcpuDocument struct {
	f   *os.File
	ctx *model.Context
}

func (d *pdfcpuDocument) PageCount() int { return d.ctx.PageCount }

func (d *pdfcpuDocument) Close() error { return d.f.Close() }

// PageText extracts text from one page's content stream.
func (d *pdfcpuDocument) PageText(pageNr int) (string, error) {
	r, err := pdfcpu.ExtractPageContent(d.ctx, pageNr)
	if err != nil {
		return "", fmt.Errorf("page content: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("page content read: %w", err)
	}
	return decodeContentStream(data), nil
}

// PageImages returns the page's embedded raster images in object-number
// order, so the in-page image index is stable across runs.
func (d *pdfcpuDocument) PageImages(pageNr int) ([]PageImage, error) {
	imgMap, err := pdfcpu.ExtractPageImages(d.ctx, pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("page images: %w", err)
	}

	objNrs := make([]int, 0, len(imgMap))
	for objNr := range imgMap {
		objNrs = append(objNrs, objNr)
	}
	sort.Ints(objNrs)

	var images []PageImage
	for _, objNr := range objNrs {
		img := imgMap[objNr]
		data, err := io.ReadAll(img)
		if err != nil {
			return nil, fmt.Errorf("image object %d: %w", objNr, err)
		}
		ext := img.FileType
		if ext == "" {
			ext = "png"
		}
		images = append(images, PageImage{Data: data, Ext: ext})
	}
	return images, nil
}

// Metadata reads the document Info dictionary. Best-effort: any failure
// yields an empty map.
func (d *pdfcpuDocument) Metadata() map[string]string {
	meta := map[string]string{}
	if d.ctx.Info == nil {
		return meta
	}
	dict, err := d.ctx.DereferenceDict(*d.ctx.Info)
	if err != nil || dict == nil {
		return meta
	}

	for _, key := range []string{"Title", "Author", "Subject", "Creator", "Producer"} {
		if v := infoString(d.ctx, dict, key); v != "" {
			meta[strings.ToLower(key)] = v
		}
	}
	return meta
}

// infoString resolves one Info-dict entry to a plain string.
func infoString(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	switch v := obj.(type) {
	case types.StringLiteral:
		return strings.TrimSpace(v.Value())
	case types.HexLiteral:
		return strings.TrimSpace(v.Value())
	}
	return ""
}

// pdfStringRe matches PDF string literals in parentheses: (text here)
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// decodeContentStream parses PDF content stream text operators. Tj, TJ and '
// carry string payloads; Td, TD and T* only affect positioning and are mapped
// to a space or newline.
func decodeContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFString(m[1]))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return normalizeText(sb.String())
}

// decodePDFString handles the basic PDF string escape sequences, including
// octal escapes like \040.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// normalizeText collapses whitespace runs and drops non-printable runes.
func normalizeText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
