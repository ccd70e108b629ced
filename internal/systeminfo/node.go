// Package systeminfo polls the Tableau Server admin diagnostics document
// (systeminfo.xml) and flattens its process tree into status records.
package systeminfo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Node is one element of the diagnostics document. Only element names and
// attributes are kept; character data is ignored.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
}

// Attr returns the named attribute and whether it was present
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// AttrOr returns the named attribute or def when it is missing
func (n *Node) AttrOr(name, def string) string {
	if v, ok := n.Attrs[name]; ok {
		return v
	}
	return def
}

// Walk visits n and its descendants in document order
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Parse reads a diagnostics document into a tree and returns its root
// element. Anything after the root element is ignored.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	// systeminfo.xml is declared as UTF-8; other charsets are read as-is
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		root  *Node
		stack []*Node
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				node.Attrs[a.Name.Local] = a.Value
			}

			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return root, nil
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return nil, fmt.Errorf("element <%s> is not closed", stack[len(stack)-1].Name)
}
