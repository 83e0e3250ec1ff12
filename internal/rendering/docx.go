package rendering

import (
	"archive/zip"
	"bytes"
	"embed"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

//go:embed docxtemplate/*.xml
var docxTemplateFiles embed.FS

// DocxMIMEType is the content type of RenderDOCX output.
const DocxMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const bodyPlaceholder = "<w:p><w:r><w:t>RESUME_BODY</w:t></w:r></w:p>"

// rightTabPos is the right margin of a Letter page with 0.75in margins, in twentieths of a point.
const rightTabPos = 10080

// docxParts maps embedded template files to their package paths.
var docxParts = []struct{ file, name string }{
	{"content_types.xml", "[Content_Types].xml"},
	{"package_rels.xml", "_rels/.rels"},
	{"document.xml", "word/document.xml"},
	{"document_rels.xml", "word/_rels/document.xml.rels"},
	{"styles.xml", "word/styles.xml"},
	{"numbering.xml", "word/numbering.xml"},
}

// RenderDOCX draws a laid-out document as a Word file.
func RenderDOCX(doc *Document) ([]byte, error) {
	tmpl, err := docxTemplate(doc.Profile)
	if err != nil {
		return nil, err
	}
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(tmpl), int64(len(tmpl)))
	if err != nil {
		return nil, &TemplateError{Template: "docx", Message: "failed to open", Cause: err}
	}
	defer func() { _ = r.Close() }()

	editable := r.Editable()
	if !strings.Contains(editable.GetContent(), bodyPlaceholder) {
		return nil, &TemplateError{Template: "docx", Message: "no body placeholder"}
	}
	editable.ReplaceRaw(bodyPlaceholder, wordBody(doc), 1)

	var buf bytes.Buffer
	if err := editable.Write(&buf); err != nil {
		return nil, &RenderError{Kind: KindDOCX, Message: "failed to write DOCX", Cause: err}
	}
	return buf.Bytes(), nil
}

// docxTemplate zips the embedded template parts with the profile's typography filled in.
func docxTemplate(p *Profile) ([]byte, error) {
	fill := strings.NewReplacer(
		"RESUME_FONT", EscapeXML(p.Font),
		"RESUME_SIZE", fmt.Sprint(p.FontSizePt*2),
		"RESUME_ACCENT", EscapeXML(p.AccentColor),
	)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range docxParts {
		content, err := docxTemplateFiles.ReadFile("docxtemplate/" + part.file)
		if err != nil {
			return nil, &TemplateError{Template: "docx", Message: "missing part " + part.file, Cause: err}
		}
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, &TemplateError{Template: "docx", Message: "failed to build", Cause: err}
		}
		if _, err := w.Write([]byte(fill.Replace(string(content)))); err != nil {
			return nil, &TemplateError{Template: "docx", Message: "failed to build", Cause: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &TemplateError{Template: "docx", Message: "failed to build", Cause: err}
	}
	return buf.Bytes(), nil
}

// wordBody converts the document into WordprocessingML paragraphs and tables.
func wordBody(doc *Document) string {
	var sb strings.Builder
	jc := "left"
	if doc.NameAlign == AlignCenter {
		jc = "center"
	}

	sb.WriteString(paragraph(`<w:pStyle w:val="Title"/><w:jc w:val="`+jc+`"/>`, run(doc.Name, runBold)))
	if len(doc.Contact) > 0 {
		sb.WriteString(paragraph(`<w:jc w:val="`+jc+`"/><w:spacing w:after="120"/>`, spanRuns(doc.Contact)))
	}

	for _, s := range doc.Sections {
		sb.WriteString(paragraph(`<w:pStyle w:val="Heading1"/>`, run(s.Heading, 0)))
		for _, b := range s.Blocks {
			switch b.Kind {
			case BlockLines:
				for _, l := range b.Lines {
					sb.WriteString(wordLine(l))
				}
			case BlockBullets:
				for _, it := range b.Items {
					sb.WriteString(paragraph(`<w:pStyle w:val="ListBullet"/>`, itemRuns(it)))
				}
			case BlockItems:
				for _, it := range b.Items {
					sb.WriteString(paragraph("", itemRuns(it)))
				}
			case BlockGrid:
				sb.WriteString(wordGrid(b))
			}
		}
	}
	return sb.String()
}

func wordLine(l Line) string {
	switch l.Style {
	case StyleEntryHeader:
		props := `<w:keepNext/><w:spacing w:before="120" w:after="0"/>`
		runs := spanRuns(l.Spans)
		if l.Right != "" {
			props = fmt.Sprintf(`<w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs>`, rightTabPos) + props
			runs += `<w:r><w:tab/></w:r>` + run(l.Right, 0)
		}
		return paragraph(props, runs)
	case StyleEntryTitle:
		return paragraph(`<w:keepNext/>`, styledSpanRuns(l.Spans, runItalic))
	case StyleDates:
		return paragraph(`<w:keepNext/><w:spacing w:before="120" w:after="0"/>`, styledSpanRuns(l.Spans, runItalic))
	}
	return paragraph("", spanRuns(l.Spans))
}

// wordGrid lays grid columns out as a borderless table, one table row per item row.
func wordGrid(b Block) string {
	rows := b.Rows()
	cols := len(b.Columns)
	width := 5000 / cols

	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		sb.WriteString(`<w:` + side + ` w:val="nil"/>`)
	}
	sb.WriteString(`</w:tblBorders><w:tblLayout w:type="fixed"/></w:tblPr><w:tblGrid>`)
	for i := 0; i < cols; i++ {
		sb.WriteString(fmt.Sprintf(`<w:gridCol w:w="%d"/>`, rightTabPos/cols))
	}
	sb.WriteString(`</w:tblGrid>`)
	for _, row := range rows {
		sb.WriteString(`<w:tr>`)
		for _, it := range row {
			sb.WriteString(fmt.Sprintf(`<w:tc><w:tcPr><w:tcW w:w="%d" w:type="pct"/></w:tcPr>`, width))
			if it.Text == "" && it.Key == "" {
				sb.WriteString(`<w:p/>`)
			} else {
				sb.WriteString(paragraph("", itemRuns(it)))
			}
			sb.WriteString(`</w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}
	sb.WriteString(`</w:tbl>`)
	return sb.String()
}

type runStyle int

const (
	runBold runStyle = 1 << iota
	runItalic
)

func paragraph(props, runs string) string {
	if props != "" {
		props = "<w:pPr>" + props + "</w:pPr>"
	}
	return "<w:p>" + props + runs + "</w:p>"
}

func run(text string, style runStyle) string {
	if text == "" {
		return ""
	}
	var props string
	if style&runBold != 0 {
		props += "<w:b/>"
	}
	if style&runItalic != 0 {
		props += "<w:i/>"
	}
	if props != "" {
		props = "<w:rPr>" + props + "</w:rPr>"
	}
	return `<w:r>` + props + `<w:t xml:space="preserve">` + EscapeXML(text) + `</w:t></w:r>`
}

func spanRuns(spans []Span) string {
	return styledSpanRuns(spans, 0)
}

func styledSpanRuns(spans []Span, base runStyle) string {
	var sb strings.Builder
	for _, s := range spans {
		style := base
		if s.Bold {
			style |= runBold
		}
		sb.WriteString(run(s.Text, style))
	}
	return sb.String()
}

func itemRuns(it Item) string {
	if it.Key == "" {
		return run(it.Text, 0)
	}
	return run(it.Key+": ", runBold) + run(it.Text, 0)
}
