package htmlutil

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims a string and squashes internal whitespace
// runs (including newlines) into single spaces.
func CollapseWhitespace(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// TextAfterNode returns the rendered text of whatever immediately follows
// `node` in the document, whether that is a bare text node or an element.
func TextAfterNode(node *html.Node) string {
	if node == nil {
		return ""
	}
	sibling := node.NextSibling
	for sibling != nil {
		if sibling.Type == html.TextNode {
			if strings.TrimSpace(sibling.Data) != "" {
				return strings.TrimSpace(sibling.Data)
			}
		} else if sibling.Type == html.ElementNode {
			return strings.TrimSpace(GetText(sibling))
		}
		sibling = sibling.NextSibling
	}
	return ""
}
