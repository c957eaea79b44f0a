// Package markdown converts pasted rich text into the markdown stored in notes.
package markdown

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern matches the opening tags that rich-text clipboards produce.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|u|strong|em|a|ul|ol|li|h[1-6]|blockquote|pre|code|table|img)[\s>/]`)

// ContainsHTML reports whether s appears to contain HTML markup.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// FromHTML converts HTML to markdown. Input without markup is returned unchanged.
func FromHTML(s string) (string, error) {
	if s == "" || !ContainsHTML(s) {
		return s, nil
	}

	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md), nil
}
