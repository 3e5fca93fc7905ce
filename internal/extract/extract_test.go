package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF assembles a one-page document with a single text-showing content
// stream, computing the cross-reference offsets as it goes.
func minimalPDF(text string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 6)
	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	writeObj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>")
	writeObj(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	writeObj(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

// minimalDocx zips a bare wordprocessing package around the given paragraphs.
func minimalDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}

	files := []struct {
		name, content string
	}{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
		{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body.String() + `</w:body></w:document>`},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestKindForFilename(t *testing.T) {
	tests := []struct {
		filename string
		kind     Kind
		ok       bool
	}{
		{"report.pdf", KindPDF, true},
		{"Report.PDF", KindPDF, true},
		{"notes.docx", KindDocx, true},
		{"legacy.doc", KindDocx, true},
		{"readme.md", KindText, true},
		{"plain.txt", KindText, true},
		{"photo.png", "", false},
		{"archive.zip", "", false},
		{"noextension", "", false},
	}

	for _, tt := range tests {
		kind, ok := KindForFilename(tt.filename)
		assert.Equal(t, tt.ok, ok, tt.filename)
		assert.Equal(t, tt.kind, kind, tt.filename)
	}
}

func TestExtract_PlainText(t *testing.T) {
	text, err := Extract([]byte("Go generics and PostgreSQL tips"), KindText)
	require.NoError(t, err)
	assert.Equal(t, "Go generics and PostgreSQL tips", text)
}

func TestExtract_PlainTextInvalidUTF8(t *testing.T) {
	// Invalid byte sequences are replaced, never fatal.
	text, err := Extract([]byte{'o', 'k', 0xff, 0xfe, '!'}, KindText)
	require.NoError(t, err)
	assert.Contains(t, text, "ok")
	assert.Contains(t, text, "!")
	assert.True(t, strings.Contains(text, "�"))
}

func TestExtract_HTMLRetainsTags(t *testing.T) {
	markup := `<html><body><h1>Intro to Rust</h1><code class="rust">fn main() {}</code></body></html>`
	text, err := Extract([]byte(markup), KindHTML)
	require.NoError(t, err)
	assert.Contains(t, text, "<h1>")
	assert.Contains(t, text, `class="rust"`)
	assert.Contains(t, text, "fn main()")
	// Pretty form spreads the tree over multiple lines.
	assert.Greater(t, strings.Count(text, "\n"), 2)
}

func TestExtract_PDF(t *testing.T) {
	text, err := Extract(minimalPDF("concurrency patterns in Go"), KindPDF)
	require.NoError(t, err)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "concurrency")
	assert.Contains(t, text, "Go")
}

func TestExtract_Docx(t *testing.T) {
	data := minimalDocx(t, "Event sourcing in practice", "Queue depth and backpressure")

	text, err := Extract(data, KindDocx)
	require.NoError(t, err)
	require.NotEmpty(t, text)

	// One paragraph per line, in document order.
	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], "Event sourcing in practice")
	assert.Contains(t, lines[1], "Queue depth and backpressure")
}

func TestExtract_CorruptPDF(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.4 not really a pdf"), KindPDF)
	require.Error(t, err)

	var exErr *Error
	assert.ErrorAs(t, err, &exErr)
	assert.Equal(t, KindPDF, exErr.Kind)
}

func TestExtract_CorruptDocx(t *testing.T) {
	_, err := Extract([]byte("PK\x03\x04 truncated zip"), KindDocx)
	require.Error(t, err)

	var exErr *Error
	assert.ErrorAs(t, err, &exErr)
	assert.Equal(t, KindDocx, exErr.Kind)
}

func TestExtract_EmptyInput(t *testing.T) {
	text, err := Extract(nil, KindText)
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = Extract(nil, KindPDF)
	assert.Error(t, err)
}

func TestExtract_UnknownKind(t *testing.T) {
	_, err := Extract([]byte("data"), Kind("tarball"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestFromAttachment_UnsupportedExtensionIsSilent(t *testing.T) {
	text, err := FromAttachment("diagram.png", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestFromAttachment_Text(t *testing.T) {
	text, err := FromAttachment("notes.md", []byte("# Kubernetes at scale"))
	require.NoError(t, err)
	assert.Equal(t, "# Kubernetes at scale", text)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("a", MaxChars+100)
	got := Truncate(long)
	assert.Len(t, got, MaxChars)
}

func TestTruncate_MultibyteBoundary(t *testing.T) {
	// Byte length exceeds the cap but rune count does not; nothing is cut.
	s := strings.Repeat("é", MaxChars/2+10)
	assert.Equal(t, s, Truncate(s))

	long := strings.Repeat("é", MaxChars+5)
	got := Truncate(long)
	assert.Equal(t, MaxChars, len([]rune(got)))
}
