package rasterize

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var errNoDocumentXML = errors.New("word/document.xml not found")

type docxRun struct {
	text      string
	bold      bool
	italic    bool
	underline bool
}

type docxParagraph struct {
	style string
	list  bool
	runs  []docxRun
}

func (p *docxParagraph) plain() string {
	var sb strings.Builder
	for _, r := range p.runs {
		sb.WriteString(r.text)
	}
	return sb.String()
}

// docxWriter turns the paragraph stream into HTML, grouping list paragraphs.
type docxWriter struct {
	sb     strings.Builder
	inList bool
	text   int
}

func (w *docxWriter) closeList() {
	if w.inList {
		w.sb.WriteString("</ul>")
		w.inList = false
	}
}

func (w *docxWriter) paragraph(p *docxParagraph, inCell bool) {
	plain := strings.TrimSpace(p.plain())
	w.text += len(plain)

	if p.list && !inCell {
		if !w.inList {
			w.sb.WriteString("<ul>")
			w.inList = true
		}
		w.sb.WriteString("<li>")
		w.runs(p.runs)
		w.sb.WriteString("</li>")
		return
	}
	if !inCell {
		w.closeList()
	}

	tag := headingTag(p.style)
	if plain == "" && tag == "p" {
		if !inCell {
			w.sb.WriteString(`<p class="blank">&nbsp;</p>`)
		}
		return
	}
	fmt.Fprintf(&w.sb, "<%s>", tag)
	w.runs(p.runs)
	fmt.Fprintf(&w.sb, "</%s>", tag)
}

func (w *docxWriter) runs(runs []docxRun) {
	for _, r := range runs {
		text := html.EscapeString(r.text)
		text = strings.ReplaceAll(text, "\t", "&emsp;")
		text = strings.ReplaceAll(text, "\n", "<br>")
		if r.underline {
			text = "<u>" + text + "</u>"
		}
		if r.italic {
			text = "<em>" + text + "</em>"
		}
		if r.bold {
			text = "<strong>" + text + "</strong>"
		}
		w.sb.WriteString(text)
	}
}

func headingTag(style string) string {
	s := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	switch {
	case s == "title":
		return "h1"
	case s == "subtitle":
		return "h2"
	case strings.HasPrefix(s, "heading") && len(s) == len("heading")+1:
		level := s[len(s)-1]
		if level >= '1' && level <= '6' {
			return "h" + string(level)
		}
	}
	return "p"
}

// toggleOn reads the w:val attribute of a run property such as <w:b w:val="0"/>.
func toggleOn(el xml.StartElement) bool {
	for _, a := range el.Attr {
		if a.Name.Local == "val" {
			v := strings.ToLower(a.Value)
			return v != "0" && v != "false" && v != "none"
		}
	}
	return true
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// DocxToHTML converts the main document part of a .docx file to an HTML page.
// It keeps headings, list paragraphs, bold/italic/underline runs, tabs, breaks
// and tables. It returns an error when the archive is unreadable or holds no text.
func DocxToHTML(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer func() { _ = r.Close() }()

	content := r.Editable().GetContent()
	if content == "" {
		return "", errNoDocumentXML
	}

	body, textLen, err := convertDocumentXML(strings.NewReader(content))
	if err != nil {
		return "", err
	}
	if textLen == 0 {
		return "", errors.New("document has no text")
	}
	return documentShell(docxCSS, body), nil
}

func convertDocumentXML(r io.Reader) (string, int, error) {
	dec := xml.NewDecoder(r)
	w := &docxWriter{}

	var (
		para      *docxParagraph
		run       *docxRun
		inRunPr   bool
		inText    bool
		cellDepth int
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", 0, fmt.Errorf("parse document.xml: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "tbl":
				w.closeList()
				w.sb.WriteString("<table>")
			case "tr":
				w.sb.WriteString("<tr>")
			case "tc":
				cellDepth++
				w.sb.WriteString("<td>")
			case "p":
				para = &docxParagraph{}
			case "pStyle":
				if para != nil {
					para.style = attr(el, "val")
					if strings.EqualFold(para.style, "ListParagraph") {
						para.list = true
					}
				}
			case "numPr":
				if para != nil {
					para.list = true
				}
			case "r":
				run = &docxRun{}
			case "rPr":
				inRunPr = run != nil
			case "b":
				if inRunPr {
					run.bold = toggleOn(el)
				}
			case "i":
				if inRunPr {
					run.italic = toggleOn(el)
				}
			case "u":
				if inRunPr {
					run.underline = toggleOn(el)
				}
			case "t":
				inText = run != nil
			case "tab":
				if run != nil && !inRunPr {
					run.text += "\t"
				}
			case "br", "cr":
				if run != nil {
					run.text += "\n"
				}
			}
		case xml.CharData:
			if inText && run != nil {
				run.text += string(el)
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "rPr":
				inRunPr = false
			case "r":
				if para != nil && run != nil && run.text != "" {
					para.runs = append(para.runs, *run)
				}
				run = nil
			case "p":
				if para != nil {
					w.paragraph(para, cellDepth > 0)
				}
				para = nil
			case "tc":
				cellDepth--
				w.sb.WriteString("</td>")
			case "tr":
				w.sb.WriteString("</tr>")
			case "tbl":
				w.sb.WriteString("</table>")
			}
		}
	}
	w.closeList()
	return w.sb.String(), w.text, nil
}
