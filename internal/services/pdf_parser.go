package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

type PDFReader interface {
	// ReadPages returns the text of every page in page order. A page that
	// cannot be read contributes an empty string.
	ReadPages(data []byte) ([]string, error)
}

type pdfReader struct {
	logger *zap.Logger
}

func NewPDFReader(logger *zap.Logger) PDFReader {
	return &pdfReader{logger: logger}
}

// ReadPages implements PDFReader. When ledongthuc/pdf cannot open the file,
// pdfcpu reads it in relaxed mode and the page content streams are scanned
// for text operators.
func (p *pdfReader) ReadPages(data []byte) ([]string, error) {
	pages, err := readPlainTextPages(data)
	if err == nil {
		return pages, nil
	}

	p.logger.Debug("plain text reader failed, scanning content streams", zap.Error(err))

	pages, fallbackErr := readContentStreamPages(data)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w: %v (content streams: %v)", models.ErrExtractionFailure, err, fallbackErr)
	}
	return pages, nil
}

func readPlainTextPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	total := r.NumPage()
	pages = make([]string, 0, total)
	for pageIndex := 1; pageIndex <= total; pageIndex++ {
		pages = append(pages, plainPageText(r, pageIndex))
	}
	return pages, nil
}

func plainPageText(r *pdf.Reader, pageIndex int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := r.Page(pageIndex)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

func readContentStreamPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdfcpu panic: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	pages = make([]string, 0, ctx.PageCount)
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pages = append(pages, contentStreamPageText(ctx, pageNr))
	}
	return pages, nil
}

func contentStreamPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return textFromContentStream(data)
}

// textFromContentStream collects the string operands of the text showing
// operators (Tj, TJ, ', ") and turns T* and ' into line breaks.
func textFromContentStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		case bytes.HasSuffix(line, []byte("'")), bytes.HasSuffix(line, []byte(`"`)):
			sb.WriteByte('\n')
			writeStringOperands(&sb, line)
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			writeStringOperands(&sb, line)
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			sb.WriteByte(' ')
		}
	}

	return sb.String()
}

// writeStringOperands copies the literal strings "(...)" of one content
// stream line, honouring nesting and backslash escapes.
func writeStringOperands(sb *strings.Builder, line []byte) {
	depth := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && depth > 0 && i+1 < len(line):
			i += writeEscape(sb, line[i+1:])
		case c == '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
		case c == ')' && depth > 0:
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			}
		case depth > 0:
			sb.WriteByte(c)
		}
	}
}

// writeEscape decodes the escape sequence that follows a backslash and
// returns how many bytes it consumed.
func writeEscape(sb *strings.Builder, rest []byte) int {
	switch rest[0] {
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'b', 'f':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val, n := 0, 0
		for n < 3 && n < len(rest) && rest[n] >= '0' && rest[n] <= '7' {
			val = val*8 + int(rest[n]-'0')
			n++
		}
		sb.WriteByte(byte(val))
		return n
	default:
		sb.WriteByte(rest[0])
	}
	return 1
}
