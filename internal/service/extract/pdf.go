package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/evolucion-dental/api-catalogo/internal/logger"
	"github.com/ledongthuc/pdf"
)

const DefaultMaxPages = 10

// OCR obtiene texto de un PDF escaneado (sin capa de texto).
type OCR interface {
	DetectText(ctx context.Context, data []byte, filename string) (string, error)
}

type PDFExtractor struct {
	maxPages int
	ocr      OCR
	log      *logger.Logger
}

// NewPDFExtractor lee como máximo maxPages páginas. ocr puede ser nil.
func NewPDFExtractor(maxPages int, ocr OCR, log *logger.Logger) *PDFExtractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &PDFExtractor{maxPages: maxPages, ocr: ocr, log: logger.OrNop(log).With("component", "extract")}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	text, err := PlainText(data, e.maxPages)
	if err == nil && text != "" {
		return text, nil
	}
	if err != nil {
		e.log.Warn("no se pudo leer la capa de texto del PDF", "file", filename, "error", err)
	}
	if e.ocr == nil {
		return "", err
	}

	e.log.Info("PDF sin texto, usando OCR", "file", filename)
	ocrText, ocrErr := e.ocr.DetectText(ctx, data, filename)
	if ocrErr != nil {
		return "", fmt.Errorf("ocr de %s: %w", filename, ocrErr)
	}
	return ocrText, nil
}

// PlainText devuelve el texto de las primeras maxPages páginas, una línea por página.
func PlainText(data []byte, maxPages int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf inválido: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	n := r.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		raw, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if line := collapseWhitespace(raw); line != "" {
			pages = append(pages, line)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
