package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText concatenates the extracted text of every page in document order.
// A page that fails to yield text contributes an empty segment; only a
// document that cannot be opened at all yields an error.
func pdfText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables, so the
	// corrupt-input contract is enforced here with a recover.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &Error{Kind: KindPDF, Message: fmt.Sprintf("reader panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Kind: KindPDF, Message: "failed to open document", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		sb.WriteString(pageText)
	}

	return Truncate(sb.String()), nil
}
