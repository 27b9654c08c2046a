package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Format() string { return "docx" }

// Extract pulls paragraph text out of word/document.xml. Runs within a
// paragraph are concatenated, paragraphs joined by newlines.
func (e *Extractor) Extract(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", errors.New("docx missing word/document.xml")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()
	return parseDocumentXML(rc)
}

func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var paras []string
	var cur strings.Builder
	inParagraph := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				cur.Reset()
			case "t":
				if inParagraph {
					var text string
					if err := dec.DecodeElement(&text, &t); err == nil {
						cur.WriteString(text)
					}
				}
			case "tab":
				if inParagraph {
					cur.WriteByte('\t')
				}
			case "br":
				if inParagraph {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				paras = append(paras, cur.String())
				inParagraph = false
			}
		}
	}
	return strings.Join(paras, "\n"), nil
}
