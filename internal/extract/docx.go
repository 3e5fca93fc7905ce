package extract

import (
	"bytes"
	"strings"

	"github.com/fumiama/go-docx"
)

// docxText concatenates paragraph text in document order, one paragraph per
// line.
func docxText(data []byte) (text string, err error) {
	// Parse can panic on truncated archives; keep the corrupt-input contract.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &Error{Kind: KindDocx, Message: "parser panic"}
		}
	}()

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Kind: KindDocx, Message: "failed to open document", Cause: err}
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			lines = append(lines, para.String())
		}
	}

	return Truncate(strings.Join(lines, "\n")), nil
}
