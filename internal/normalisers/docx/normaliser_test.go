package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/polyglot/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))
	require.NoError(t, err)

	if documentXML != "" {
		doc, err := w.Create("word/document.xml")
		require.NoError(t, err)
		_, err = doc.Write([]byte(documentXML))
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())
	return buf.Bytes()
}

func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []domain.FileFormat{domain.FormatDOCX}, New().Formats())
}

func TestExtract_Success(t *testing.T) {
	data := createTestDOCX(t, wrapBody(`<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>`))

	text, err := New().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
}

func TestExtract_MultipleParagraphs(t *testing.T) {
	data := createTestDOCX(t, wrapBody(
		`<w:p><w:r><w:t>Primer párrafo.</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>第三段落。</w:t></w:r></w:p>`))

	text, err := New().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, "Primer párrafo.\nSecond paragraph.\n第三段落。", text)
}

func TestExtract_MultipleRuns(t *testing.T) {
	data := createTestDOCX(t, wrapBody(
		`<w:p><w:r><w:t xml:space="preserve">Hello </w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>World</w:t></w:r></w:p>`))

	text, err := New().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, "Hello World", text)
}

func TestExtract_TabsBreaksAndTables(t *testing.T) {
	data := createTestDOCX(t, wrapBody(
		`<w:p><w:r><w:t>Name</w:t><w:tab/><w:t>Days</w:t><w:br/><w:t>Line two</w:t></w:r></w:p>`+
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell A</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>Cell B</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`))

	text, err := New().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, "Name\tDays\nLine two\nCell A\nCell B", text)
}

func TestExtract_IgnoresNonTextElements(t *testing.T) {
	data := createTestDOCX(t, wrapBody(
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:instrText>PAGE</w:instrText><w:t>Title</w:t></w:r></w:p>`))

	text, err := New().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, "Title", text)
}

func TestExtract_EmptyDocument(t *testing.T) {
	data := createTestDOCX(t, wrapBody(""))

	text, err := New().Extract(context.Background(), data)

	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_InvalidZip(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("not a zip file"))

	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	_, err := New().Extract(context.Background(), createTestDOCX(t, ""))

	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}

func TestExtract_MalformedXML(t *testing.T) {
	data := createTestDOCX(t, `<w:document><w:body><w:p>`)

	_, err := New().Extract(context.Background(), data)

	assert.ErrorIs(t, err, domain.ErrCorruptFile)
}
