package surface

import (
	"io"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Snapshot is the text reduction of a fetched page.
type Snapshot struct {
	URL         string
	Title       string
	Description string
	Paragraphs  []string
	Links       []Link
	StatusCode  int
	FetchedAt   time.Time
}

// Link is an anchor discovered in the page, href resolved against the page URL.
type Link struct {
	Text string
	URL  string
}

// Blank reports whether the snapshot holds no renderable content.
func (s Snapshot) Blank() bool {
	return s.Title == "" && len(s.Paragraphs) == 0 && len(s.Links) == 0
}

// parseSnapshot walks the HTML tree collecting the title, the meta
// description, visible text blocks and anchors. Parse errors yield whatever
// was collected up to that point; a broken page is not a navigation failure.
func parseSnapshot(base *url.URL, reader io.Reader) Snapshot {
	var snapshot Snapshot

	root, errParse := html.Parse(reader)
	if errParse != nil {
		return snapshot
	}

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "title":
				if snapshot.Title == "" {
					snapshot.Title = strings.TrimSpace(nodeText(node))
				}
			case "meta":
				if name := attrValue(node, "name"); name == "description" || attrValue(node, "property") == "og:description" {
					if snapshot.Description == "" {
						snapshot.Description = strings.TrimSpace(attrValue(node, "content"))
					}
				}
			case "p", "h1", "h2", "h3", "blockquote", "article":
				if text := strings.TrimSpace(collapseSpace(nodeText(node))); text != "" {
					snapshot.Paragraphs = append(snapshot.Paragraphs, text)
				}

				return
			case "a":
				href := attrValue(node, "href")
				if href == "" || strings.HasPrefix(href, "#") {
					return
				}
				resolved := resolveRef(base, href)
				if resolved == "" {
					return
				}
				text := strings.TrimSpace(collapseSpace(nodeText(node)))
				if text == "" {
					text = resolved
				}
				snapshot.Links = append(snapshot.Links, Link{Text: text, URL: resolved})

				return
			case "script", "style", "noscript":
				return
			}
		}

		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return snapshot
}

func nodeText(node *html.Node) string {
	var builder strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)

	return builder.String()
}

func attrValue(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}

	return ""
}

func collapseSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
