package discover

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ExtractHrefs parses HTML and returns every href attribute value found
// in the document, in document order and deduplicated.
//
// The x/net/html tokenizer handles the malformed markup that rendered
// documentation pages tend to contain, which a regex would trip over.
func ExtractHrefs(content io.Reader) ([]string, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	hrefs := make([]string, 0)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" || seen[href] {
					continue
				}
				seen[href] = true
				hrefs = append(hrefs, href)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return hrefs, nil
}
