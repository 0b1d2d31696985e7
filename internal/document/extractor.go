// Package document turns uploaded candidate documents into plain text.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"go.uber.org/zap"
)

// ErrNoText is returned when no text could be extracted from any page.
var ErrNoText = errors.New("no text could be extracted from the document")

// Extractor converts a document into plain text.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}

// PDFExtractor extracts text from PDF resumes, passing plain-text files
// through unchanged.
type PDFExtractor struct {
	logger *zap.Logger
}

// NewPDFExtractor creates a document extractor.
func NewPDFExtractor(log *zap.Logger) *PDFExtractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &PDFExtractor{logger: log}
}

// Extract returns the text content of the document. The file extension
// selects the handling: .pdf goes through the PDF reader, everything else is
// treated as plain text.
func (e *PDFExtractor) Extract(data []byte, filename string) (string, error) {
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", ErrNoText
		}
		return text, nil
	}

	return e.extractPDF(data, filename)
}

func (e *PDFExtractor) extractPDF(data []byte, filename string) (string, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read pdf %s: %w", filename, err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("get page count of %s: %w", filename, err)
	}
	if numPages == 0 {
		return "", ErrNoText
	}

	var builder strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			e.logger.Debug("skipping unreadable page",
				zap.String("file", filename),
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}

		ex, err := extractor.New(page)
		if err != nil {
			e.logger.Debug("skipping page without extractor",
				zap.String("file", filename),
				zap.Int("page", i),
				zap.Error(err),
			)
			continue
		}

		pageText, err := ex.ExtractText()
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}

		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(pageText)
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", ErrNoText
	}

	e.logger.Debug("extracted pdf text",
		zap.String("file", filename),
		zap.Int("pages", numPages),
		zap.Int("characters", len(text)),
	)

	return text, nil
}
