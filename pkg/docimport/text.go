package docimport

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	reTags   = regexp.MustCompile(`<[^>]+>`)
	reSpaces = regexp.MustCompile(`[ \t\r\f\v]+`)
	reLines  = regexp.MustCompile(`\n+`)
)

// ExtractText pulls plain text out of a PDF or DOCX document for providers
// that cannot read files themselves. Legacy .doc is not supported.
func ExtractText(mediaType string, data []byte) (string, error) {
	switch mediaType {
	case MediaTypePDF:
		return pdfText(data)
	case MediaTypeDocx:
		return docxText(data)
	}
	return "", fmt.Errorf("text extraction is not supported for %s", mediaType)
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return normalizeWhitespace(buf.String()), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	xml := doc.Editable().GetContent()
	// paragraph boundaries become newlines
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	return normalizeWhitespace(html.UnescapeString(reTags.ReplaceAllString(xml, " "))), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = reSpaces.ReplaceAllString(s, " ")
	s = reLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
