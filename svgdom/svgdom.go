// Package svgdom provides a minimal read-only element tree for SVG filter
// definitions.
//
// Two parsers are available:
//   - Parse — strict XML (encoding/xml). Tag case and attribute case are
//     preserved exactly; namespace prefixes are stripped to local names.
//   - ParsePermissive — HTML5 tokenizer (x/net/html) for malformed or
//     namespace-less input. The HTML parser lowercases foreign tag names, so
//     canonical SVG camelCase (feGaussianBlur, stdDeviation, ...) is restored
//     from a lookup table after parsing.
//
// The tree is built once and never mutated; callers may share it freely.
package svgdom

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Element is one node of a parsed SVG subtree.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []*Element
}

// Attr returns the value of the named attribute, or "" when absent.
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// AttrDefault returns the named attribute, or def when absent or empty.
func (e *Element) AttrDefault(name, def string) string {
	if v, ok := e.Attrs[name]; ok && v != "" {
		return v
	}
	return def
}

// HasAttr reports whether the attribute is present, even if empty.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// Find returns the first descendant (depth-first, including e itself) with
// the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	if e.Tag == tag {
		return e
	}
	for _, c := range e.Children {
		if m := c.Find(tag); m != nil {
			return m
		}
	}
	return nil
}

// Parse reads a strict-XML SVG subtree and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Tag: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.Attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse xml: no element found")
	}
	return root, nil
}

// ParsePermissive reads SVG through the HTML5 parser, tolerating unclosed
// tags, missing namespaces, and stray markup. Tag and attribute case is
// restored to canonical SVG spelling where known.
func ParsePermissive(r io.Reader) (*Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	root := firstInteresting(convertHTML(doc))
	if root == nil {
		return nil, fmt.Errorf("parse html: no element found")
	}
	return root, nil
}

// convertHTML maps an html.Node tree onto Elements, restoring SVG case.
func convertHTML(n *html.Node) *Element {
	if n.Type == html.ElementNode {
		el := &Element{Tag: canonicalTag(n.Data), Attrs: make(map[string]string, len(n.Attr))}
		for _, a := range n.Attr {
			el.Attrs[canonicalAttr(a.Key)] = a.Val
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if child := convertHTML(c); child != nil {
				el.Children = append(el.Children, child)
			}
		}
		return el
	}
	// Document node: descend to the single meaningful element child.
	if n.Type == html.DocumentNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if el := convertHTML(c); el != nil {
				return el
			}
		}
	}
	return nil
}

// firstInteresting skips the html/head/body scaffolding the HTML5 parser
// wraps fragments in, returning the first SVG-relevant element.
func firstInteresting(e *Element) *Element {
	if e == nil {
		return nil
	}
	switch e.Tag {
	case "html", "head", "body":
		for _, c := range e.Children {
			if m := firstInteresting(c); m != nil {
				return m
			}
		}
		return nil
	}
	return e
}

// FilterDefs collects all filter elements carrying an id, in document order.
func FilterDefs(root *Element) []*Element {
	var defs []*Element
	var walk func(*Element)
	walk = func(e *Element) {
		if e.Tag == "filter" && e.Attr("id") != "" {
			defs = append(defs, e)
			return
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return defs
}

// StripReference reduces url(#id), url('#id'), #id, or a bare id to id.
func StripReference(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "url(") && strings.HasSuffix(s, ")") {
		s = s[4 : len(s)-1]
		s = strings.Trim(s, `'"`)
	}
	return strings.TrimPrefix(s, "#")
}
