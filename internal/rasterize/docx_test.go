package rasterize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocxToHTML_Formatting(t *testing.T) {
	body := `<w:p><w:pPr><w:pStyle w:val="Title"/></w:pPr><w:r><w:t>Grace Hopper</w:t></w:r></w:p>` +
		`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Bold</w:t></w:r><w:r><w:rPr><w:b w:val="0"/></w:rPr><w:t xml:space="preserve"> plain</w:t></w:r></w:p>` +
		`<w:p><w:r><w:rPr><w:i/><w:u w:val="single"/></w:rPr><w:t>styled</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Left</w:t><w:tab/><w:t>Right</w:t><w:br/><w:t>Next</w:t></w:r></w:p>`
	html, err := DocxToHTML(docxArchive(t, body))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Grace Hopper</h1>")
	assert.Contains(t, html, "<p><strong>Bold</strong> plain</p>")
	assert.Contains(t, html, "<p><em><u>styled</u></em></p>")
	assert.Contains(t, html, "Left&emsp;Right<br>Next")
}

func TestDocxToHTML_ListsAndTables(t *testing.T) {
	body := `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>First</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:pStyle w:val="ListParagraph"/></w:pPr><w:r><w:t>Second</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>After &amp; list</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>5 years</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`
	html, err := DocxToHTML(docxArchive(t, body))
	require.NoError(t, err)

	assert.Contains(t, html, "<ul><li>First</li><li>Second</li></ul><p>After &amp; list</p>")
	assert.Contains(t, html, "<table><tr><td><p>Go</p></td><td><p>5 years</p></td></tr></table>")
}

func TestDocxToHTML_Errors(t *testing.T) {
	_, err := DocxToHTML([]byte("not a zip"))
	assert.Error(t, err)

	_, err = DocxToHTML(docxArchive(t, `<w:p><w:r><w:t>   </w:t></w:r></w:p>`))
	assert.Error(t, err)
}

func TestHeadingTag(t *testing.T) {
	assert.Equal(t, "h1", headingTag("Title"))
	assert.Equal(t, "h2", headingTag("Subtitle"))
	assert.Equal(t, "h3", headingTag("Heading3"))
	assert.Equal(t, "h2", headingTag("heading 2"))
	assert.Equal(t, "p", headingTag("Heading7"))
	assert.Equal(t, "p", headingTag("Normal"))
}
