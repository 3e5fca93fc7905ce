package pipeline

import "regexp"

// urlPattern recognizes well-formed http/https URLs inside a message body.
var urlPattern = regexp.MustCompile(`http[s]?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

// ScanURLs extracts all URLs from a message body in encounter order.
func ScanURLs(body string) []string {
	return urlPattern.FindAllString(body, -1)
}
