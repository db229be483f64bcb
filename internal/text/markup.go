package text

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// lineBreakTags end the current line when stripping markup
var lineBreakTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// StripMarkup reduces inline HTML to plain text. Entities are decoded and
// block-level tags become line breaks. Text without markup is returned
// unchanged apart from normalization.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return Normalize(s)
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return Normalize(strings.TrimRight(sb.String(), "\n"))
		case html.TextToken:
			sb.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if lineBreakTags[string(name)] && sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte('\n')
			}
		}
	}
}

// Normalize returns s in Unicode NFC so composed and decomposed input
// measure the same
func Normalize(s string) string {
	return norm.NFC.String(s)
}
