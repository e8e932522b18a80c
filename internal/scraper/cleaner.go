package scraper

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/chandrakanthm/skyvern/internal/domain/entity"
)

// CleanConfig controls how much of the raw html survives cleaning.
type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	MaxOutputSize int
}

// DefaultCleanConfig strips everything a language model cannot use while
// keeping the attributes resolution and accessibility depend on: the stable
// id attribute and aria-* stay.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg",
		"link", "meta", "head", "title",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority",
	},
	MaxOutputSize: 130_000,
}

// CleanHTML reduces rawHTML to the body subtree with noise removed. Parse
// failures fall back to the raw input so callers always get something to
// work with.
func CleanHTML(rawHTML string, cfg *CleanConfig) string {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	body := findBody(doc)
	if body == nil {
		return rawHTML
	}

	cleanNode(body, cfg)

	var sb strings.Builder
	_ = html.Render(&sb, body)
	return truncate(sb.String(), cfg.MaxOutputSize)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// cleanNode removes comments and noisy tags and filters attributes, walking
// children with the next sibling saved up front because removal unlinks the
// current node.
func cleanNode(n *html.Node, cfg *CleanConfig) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	for _, tag := range cfg.TagsToRemove {
		if n.Data == tag {
			if n.Parent != nil {
				n.Parent.RemoveChild(n)
			}
			return
		}
	}

	n.Attr = filterAttrs(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func filterAttrs(attrs []html.Attribute, cfg *CleanConfig) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if dropAttr(attr, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func dropAttr(attr html.Attribute, cfg *CleanConfig) bool {
	if attr.Key == entity.IdentityAttribute {
		return false
	}
	for _, r := range cfg.AttrsToRemove {
		if attr.Key == r {
			return true
		}
	}
	if strings.HasPrefix(attr.Key, "data-") || strings.HasPrefix(attr.Key, "on") {
		return true
	}
	return false
}

func truncate(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		return s[:maxSize] + "\n<!-- truncated -->"
	}
	return s
}
