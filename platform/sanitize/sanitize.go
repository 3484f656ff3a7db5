// Package sanitize provides text normalization for message and note bodies.
// This is part of the platform layer and contains no business logic.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	// replyHeaderRegex matches trailing "On Mon, Jan 2 ... wrote:" chains that
	// email clients prepend to quoted replies.
	replyHeaderRegex = regexp.MustCompile(`\s*On\s+\w{3},\s+\w{3}\s+\d`)
)

// isQuoteNode reports whether a node starts a quoted-reply chain.
func isQuoteNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "blockquote" {
		return true
	}
	if n.Data == "div" {
		for _, attr := range n.Attr {
			if attr.Key == "class" && strings.Contains(attr.Val, "gmail_quote") {
				return true
			}
		}
	}
	return false
}

// HTMLToText converts an HTML fragment to plain text. Style and script
// content is dropped, quoted-reply chains (blockquote, gmail_quote) are cut,
// and whitespace is collapsed. Plain-text input passes through unchanged
// apart from whitespace normalization.
func HTMLToText(s string) string {
	if s == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return CollapseWhitespace(s)
	}

	var b strings.Builder
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if isQuoteNode(n) {
			// Everything from the quote marker on is a reply chain.
			return false
		}
		if n.Type == html.ElementNode && (n.Data == "style" || n.Data == "script") {
			return true
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(doc)

	return StripReplyChain(CollapseWhitespace(b.String()))
}

// StripReplyChain cuts a plain-text body at the first quoted-reply header.
func StripReplyChain(s string) string {
	if loc := replyHeaderRegex.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[:loc[0]])
	}
	return s
}

// CollapseWhitespace normalizes all whitespace runs to single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// Truncate limits a body to max runes, appending an ellipsis marker when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
