package entity

import (
	"html"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// LinkifyHTML escapes text for HTML embedding while wrapping URLs in anchor
// tags. Both the surrounding text and the URL itself are escaped, so the
// transform cannot reintroduce attacker-controlled markup.
func LinkifyHTML(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		url := text[loc[0]:loc[1]]
		escaped := html.EscapeString(url)
		b.WriteString(`<a href="` + escaped + `" target="_blank" rel="noopener noreferrer">` + escaped + `</a>`)
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}
