package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yosssi/gohtml"
)

// HTML parses markup into a tag tree and serializes it back as an
// indentation-pretty document with tags retained. The classifier receives
// structure, not just visible text: tag names and attributes carry topical
// signal (e.g. <code class="python">).
func HTML(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", &Error{Kind: KindHTML, Message: "failed to parse markup", Cause: err}
	}

	rendered, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return "", &Error{Kind: KindHTML, Message: "failed to serialize document", Cause: err}
	}

	return Truncate(gohtml.Format(rendered)), nil
}
