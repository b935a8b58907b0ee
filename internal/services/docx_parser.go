package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

type DocxReader interface {
	// ReadParagraphs returns the text of every w:p element in document
	// order, empty paragraphs included.
	ReadParagraphs(data []byte) ([]string, error)
}

type docxReader struct{}

func NewDocxReader() DocxReader {
	return &docxReader{}
}

const docxBodyPart = "word/document.xml"

// ReadParagraphs implements DocxReader.
func (d *docxReader) ReadParagraphs(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open docx archive: %v", models.ErrExtractionFailure, err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, fmt.Errorf("%w: %s not found in archive", models.ErrExtractionFailure, docxBodyPart)
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", models.ErrExtractionFailure, docxBodyPart, err)
	}
	defer rc.Close()

	paragraphs, err := parseDocxParagraphs(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrExtractionFailure, err)
	}
	return paragraphs, nil
}

// parseDocxParagraphs walks WordprocessingML. Text comes from w:t runs,
// w:tab becomes a tab and w:br / w:cr a newline. Tab stops declared in
// paragraph properties are not text. Paragraphs nested in text boxes are
// emitted when they close.
func parseDocxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var open []*strings.Builder
	inText, inProps := false, false

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				inText = len(open) > 0
			case "pPr":
				inProps = true
			case "tab":
				if len(open) > 0 && !inProps {
					open[len(open)-1].WriteByte('\t')
				}
			case "br", "cr":
				if len(open) > 0 {
					open[len(open)-1].WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				open[len(open)-1].Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "pPr":
				inProps = false
			case "p":
				if len(open) == 0 {
					continue
				}
				paragraphs = append(paragraphs, open[len(open)-1].String())
				open = open[:len(open)-1]
			}
		}
	}

	return paragraphs, nil
}
