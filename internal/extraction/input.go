package extraction

import (
	"bytes"
	"html"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nguyenthenguyen/docx"

	"github.com/jonathan/resume-refiner/internal/parsing"
)

// DocxMIMEType is the Word document type. DOCX is converted to text before extraction.
const DocxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Document is the payload sent to the model: either decoded text or inline bytes.
type Document struct {
	Filename string
	MIMEType string
	Text     string
	Data     []byte
}

// IsBinary reports whether the document is sent as inline bytes.
func (d *Document) IsBinary() bool {
	return d.Text == "" && len(d.Data) > 0
}

type family int

const (
	familyText family = iota + 1
	familyVisual
	familyDocx
)

var extensionTypes = map[string]string{
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".rtf":      "application/rtf",
	".pdf":      "application/pdf",
	".jpg":      "image/jpeg",
	".jpeg":     "image/jpeg",
	".png":      "image/png",
	".webp":     "image/webp",
	".docx":     DocxMIMEType,
}

var typeFamilies = map[string]family{
	"text/plain":       familyText,
	"text/markdown":    familyText,
	"text/rtf":         familyText,
	"application/rtf":  familyText,
	"application/pdf":  familyVisual,
	"image/jpeg":       familyVisual,
	"image/png":        familyVisual,
	"image/webp":       familyVisual,
	DocxMIMEType:       familyDocx,
}

// SupportedExtensions lists accepted file extensions, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionTypes))
	for ext := range extensionTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// DetectInput classifies an uploaded file and prepares its payload. Text formats are decoded
// here, DOCX is converted to text, and PDF/image files are passed through as bytes.
// The extension decides; content sniffing is the fallback for unknown extensions.
func DetectInput(filename string, data []byte) (*Document, error) {
	mimeType := extensionTypes[strings.ToLower(filepath.Ext(filename))]
	if mimeType == "" {
		mimeType = sniff(data)
	}
	fam, ok := typeFamilies[mimeType]
	if !ok {
		return nil, &UnsupportedInputError{Filename: filename, MIMEType: mimeType}
	}

	doc := &Document{Filename: filename, MIMEType: mimeType}
	switch fam {
	case familyText:
		text := string(data)
		if mimeType == "application/rtf" || mimeType == "text/rtf" {
			text = StripRTF(text)
		}
		doc.Text = parsing.CleanText(text)
	case familyDocx:
		text, err := DocxText(data)
		if err != nil {
			return nil, &ExtractionError{Message: "failed to read DOCX file", Cause: err}
		}
		doc.Text = parsing.CleanText(text)
	case familyVisual:
		doc.Data = data
	}
	return doc, nil
}

func sniff(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	detected := mimetype.Detect(data)
	for candidate := range typeFamilies {
		if detected.Is(candidate) {
			return candidate
		}
	}
	return detected.String()
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br[^>]*/>|<w:cr[^>]*/>`)
	docxTab          = regexp.MustCompile(`<w:tab[^>]*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
)

// DocxText returns the plain text of a Word document, one line per paragraph.
func DocxText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Close() }()

	content := r.Editable().GetContent()
	if i := strings.Index(content, "<w:body"); i >= 0 {
		content = content[i:]
	}
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = docxTab.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return html.UnescapeString(content), nil
}

var (
	rtfDestination = regexp.MustCompile(`\{\\\*[^{}]*\}`)
	rtfControl     = regexp.MustCompile(`\\([a-zA-Z]+)-?\d* ?`)
	rtfHex         = regexp.MustCompile(`\\'[0-9a-fA-F]{2}`)
)

// StripRTF drops RTF control words and groups, keeping paragraph breaks.
func StripRTF(s string) string {
	s = rtfDestination.ReplaceAllString(s, "")
	s = rtfHex.ReplaceAllString(s, "")
	s = rtfControl.ReplaceAllStringFunc(s, func(word string) string {
		name := strings.TrimLeft(strings.TrimRight(word, " 0123456789-"), `\`)
		switch name {
		case "par", "line":
			return "\n"
		case "tab":
			return "\t"
		}
		return ""
	})
	s = strings.NewReplacer("{", "", "}", "", `\\`, `\`).Replace(s)
	return s
}
