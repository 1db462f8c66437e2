package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dtnghia/syllabus-backend/utils"
)

// Source material for AI proposals can be uploaded as .pdf or .txt.

// ExtractText pulls plain text out of an uploaded source file.
func ExtractText(fileHeader *multipart.FileHeader) (string, error) {
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".pdf":
		return extractTextFromPDF(fileHeader)
	case ".txt":
		return extractTextFromTXT(fileHeader)
	default:
		return "", fmt.Errorf("unsupported source file type %q: %w", filepath.Ext(fileHeader.Filename), utils.ErrValidation)
	}
}

func extractTextFromPDF(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", fmt.Errorf("cannot read PDF file: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("cannot open PDF: %v: %w", err, utils.ErrValidation)
	}

	var text bytes.Buffer
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(content)
	}
	return text.String(), nil
}

func extractTextFromTXT(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(file); err != nil {
		return "", err
	}
	return buf.String(), nil
}
