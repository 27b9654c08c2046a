package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractParagraphs(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>The price is </w:t></w:r><w:r><w:t>1,250.50 dollars.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	got, err := New().Extract(buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "The price is 1,250.50 dollars.\nSecond paragraph.", got)
}

func TestExtractNotAZip(t *testing.T) {
	_, err := New().Extract([]byte("plain text, not a docx"))
	assert.Error(t, err)
}

func TestExtractMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, _ = w.Write([]byte("<styles/>"))
	require.NoError(t, zw.Close())

	_, err = New().Extract(buf.Bytes())
	assert.Error(t, err)
}
