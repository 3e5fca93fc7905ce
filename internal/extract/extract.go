// Package extract converts document attachments and fetched web pages into
// plain text for downstream classification. It has no knowledge of skills or
// matching; every path caps its output at MaxChars to bound classifier
// request payloads.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxChars is the maximum number of characters returned from any extraction.
const MaxChars = 300000

// Kind identifies the format of a content source.
type Kind string

// Supported source kinds.
const (
	KindPDF  Kind = "pdf"
	KindDocx Kind = "docx"
	KindText Kind = "text"
	KindHTML Kind = "html"
)

// Error represents a failed extraction for a single source. Callers recover
// by treating the source as contributing no text; it never aborts the
// processing of other sources.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindForFilename maps a file name to a source kind by extension. The second
// return value is false for unsupported extensions, which callers skip
// silently.
func KindForFilename(name string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return KindPDF, true
	case ".docx", ".doc":
		return KindDocx, true
	case ".txt", ".md":
		return KindText, true
	default:
		return "", false
	}
}

// SupportedFilename reports whether an attachment file name has a recognized
// extension.
func SupportedFilename(name string) bool {
	_, ok := KindForFilename(name)
	return ok
}

// Extract converts raw source bytes of the given kind into plain text,
// truncated to MaxChars. A decode or parse failure yields an *Error for this
// source only.
func Extract(data []byte, kind Kind) (string, error) {
	switch kind {
	case KindPDF:
		return pdfText(data)
	case KindDocx:
		return docxText(data)
	case KindText:
		return plainText(data), nil
	case KindHTML:
		return HTML(string(data))
	default:
		return "", &Error{Kind: kind, Message: "unsupported source kind"}
	}
}

// FromAttachment extracts text from an attachment by file name. Unsupported
// extensions return ("", nil) so the caller can move on without logging.
func FromAttachment(filename string, data []byte) (string, error) {
	kind, ok := KindForFilename(filename)
	if !ok {
		return "", nil
	}
	return Extract(data, kind)
}

// plainText decodes bytes as UTF-8, replacing undecodable sequences rather
// than failing.
func plainText(data []byte) string {
	return Truncate(strings.ToValidUTF8(string(data), string(utf8.RuneError)))
}

// Truncate caps text at MaxChars characters.
func Truncate(s string) string {
	if len(s) <= MaxChars {
		return s
	}
	runes := []rune(s)
	if len(runes) <= MaxChars {
		return s
	}
	return string(runes[:MaxChars])
}
