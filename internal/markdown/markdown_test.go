package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "empty string", input: "", expected: false},
		{name: "plain text", input: "Buy milk, then call Sam.", expected: false},
		{name: "angle brackets but not HTML", input: "Use <stdin> for input and 2 > 1 is true", expected: false},
		{name: "paragraph", input: "<p>Standup notes</p>", expected: true},
		{name: "self-closing break", input: "Line one<br/>Line two", expected: true},
		{name: "anchor", input: `See <a href="https://example.com">docs</a>`, expected: true},
		{name: "list", input: "<ul><li>One</li></ul>", expected: true},
		{name: "code block", input: "<pre>go test ./...</pre>", expected: true},
		{name: "uppercase tags", input: "<P>Shouting</P>", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsHTML(tt.input))
		})
	}
}

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "plain text unchanged", input: "  keep *my* spacing  ", expected: "  keep *my* spacing  "},
		{name: "paragraphs", input: "<p>First.</p><p>Second.</p>", expected: "First.\n\nSecond."},
		{name: "bold", input: "Ship <b>today</b> and <strong>tomorrow</strong>.", expected: "Ship **today** and **tomorrow**."},
		{name: "italic", input: "This is <i>italic</i> and <em>emphasized</em> text.", expected: "This is *italic* and *emphasized* text."},
		{name: "links", input: `Read <a href="https://example.com">the guide</a> first.`, expected: "Read [the guide](https://example.com) first."},
		{name: "unordered list", input: "<ul><li>Item 1</li><li>Item 2</li></ul>", expected: "- Item 1\n- Item 2"},
		{name: "ordered list", input: "<ol><li>First</li><li>Second</li></ol>", expected: "1. First\n2. Second"},
		{name: "heading", input: "<h1>Retro</h1><p>Went well</p>", expected: "# Retro\n\nWent well"},
		{name: "blockquote", input: "<blockquote>Ship it</blockquote>", expected: "> Ship it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHTML(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
