package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported resume MIME types
const (
	MimePDF  = "application/pdf"
	MimeDoc  = "application/msword"
	MimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

var extensionTypes = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDoc,
	".docx": MimeDocx,
	".txt":  MimeText,
}

// ErrUnsupported is returned for resume types that are stored but cannot
// be read as text, such as legacy .doc files
var ErrUnsupported = errors.New("text extraction unsupported")

// Supported reports whether Text can read mime
func Supported(mime string) bool {
	switch mime {
	case MimeText, MimePDF, MimeDocx:
		return true
	}
	return false
}

// MimeFromName guesses a resume MIME type from the file extension
func MimeFromName(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

// Text returns the plain text of a resume file
func Text(mime string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch mime {
	case MimeText:
		text = string(data)
	case MimePDF:
		text, err = pdfText(bytes.NewReader(data), int64(len(data)))
	case MimeDocx:
		text, err = docxText(bytes.NewReader(data), int64(len(data)))
	default:
		return "", fmt.Errorf("%w for %q", ErrUnsupported, mime)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func pdfText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func docxText(r io.ReaderAt, size int64) (string, error) {
	doc, err := docx.ReadDocxFromMemory(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
