package pipeline

import (
	"context"

	"github.com/jonathan/skillcast/internal/fetch"
)

// WebFetcher retrieves URLs over plain HTTP, optionally falling back to a
// headless browser when the response is too small to be a rendered page.
type WebFetcher struct {
	Options    *fetch.Options
	UseBrowser bool
}

// Fetch returns the raw markup for a URL.
func (f *WebFetcher) Fetch(ctx context.Context, url string) (string, error) {
	result, err := fetch.URL(ctx, url, f.Options)
	if err != nil {
		return "", err
	}

	markup := result.Body
	if f.UseBrowser && fetch.ShouldUseBrowser(markup) {
		rendered, browserErr := fetch.BrowserSimple(ctx, url)
		if browserErr == nil {
			markup = rendered
		}
		// On browser failure, keep the HTTP content.
	}

	return markup, nil
}
