package models

import (
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDocx  Format = "docx"
	FormatImage Format = "image"
)

// Document is one uploaded resume. It is only held for the duration of a
// single processing call. Err marks a document rejected before extraction
// (oversized upload, unreadable part); it fails in place within its batch.
type Document struct {
	Filename string
	Format   Format
	Data     []byte
	Err      error
}

var formatsByExtension = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDocx,
	".png":  FormatImage,
	".jpg":  FormatImage,
	".jpeg": FormatImage,
	".gif":  FormatImage,
	".bmp":  FormatImage,
}

// DetectFormat maps a filename extension (case-insensitive) to a Format.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if format, ok := formatsByExtension[ext]; ok {
		return format, nil
	}
	return "", &UnsupportedFormatError{Filename: filename}
}

// NewDocument builds a Document, detecting its format from the filename.
// An unsupported extension still yields a Document so the caller can report
// the failure in its place within a batch.
func NewDocument(filename string, data []byte) (Document, error) {
	format, err := DetectFormat(filename)
	return Document{Filename: filename, Format: format, Data: data}, err
}

func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".png", ".jpg", ".jpeg", ".gif", ".bmp"}
}
