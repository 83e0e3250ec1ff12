package extraction

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectInput_Text(t *testing.T) {
	doc, err := DetectInput("resume.TXT", []byte("Jane Doe\r\n\r\n\r\nEngineer  at  Acme"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", doc.MIMEType)
	assert.False(t, doc.IsBinary())
	assert.Equal(t, "Jane Doe\n\nEngineer at Acme", doc.Text)
}

func TestDetectInput_Markdown(t *testing.T) {
	doc, err := DetectInput("cv.md", []byte("# Jane"))
	require.NoError(t, err)
	assert.Equal(t, "text/markdown", doc.MIMEType)
	assert.Equal(t, "# Jane", doc.Text)
}

func TestDetectInput_VisualFamily(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"pdf", "cv.pdf", "application/pdf"},
		{"jpeg", "scan.JPG", "image/jpeg"},
		{"png", "scan.png", "image/png"},
		{"webp", "scan.webp", "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DetectInput(tt.filename, []byte{1, 2, 3})
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.MIMEType)
			assert.True(t, doc.IsBinary())
			assert.Equal(t, []byte{1, 2, 3}, doc.Data)
		})
	}
}

func TestDetectInput_SniffsUnknownExtension(t *testing.T) {
	doc, err := DetectInput("upload", []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MIMEType)
}

func TestDetectInput_Unsupported(t *testing.T) {
	_, err := DetectInput("setup.exe", []byte("MZ\x90\x00\x03\x00\x00\x00"))
	var unsupported *UnsupportedInputError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "setup.exe", unsupported.Filename)
	assert.Contains(t, err.Error(), ".docx")
	assert.Contains(t, err.Error(), ".pdf")
}

func TestDetectInput_Docx(t *testing.T) {
	body := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>R&amp;D Engineer</w:t><w:tab/><w:t>2020</w:t></w:r></w:p>`
	doc, err := DetectInput("cv.docx", buildDocx(t, body))
	require.NoError(t, err)
	assert.Equal(t, DocxMIMEType, doc.MIMEType)
	assert.Equal(t, "Jane Doe\nR&D Engineer 2020", doc.Text)
}

func TestDetectInput_CorruptDocx(t *testing.T) {
	_, err := DetectInput("cv.docx", []byte("not a zip"))
	var extErr *ExtractionError
	assert.ErrorAs(t, err, &extErr)
}

func TestStripRTF(t *testing.T) {
	in := `{\rtf1\ansi{\*\generator Word;}\f0\fs24 Jane Doe\par Engineer\tab Acme\par}`
	assert.Equal(t, "Jane Doe\nEngineer\tAcme\n", StripRTF(in))
}
