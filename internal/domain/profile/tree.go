package profile

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// element is a minimal XML tree node. Slicer settings are arbitrary tag→text
// pairs, so parsing goes through a generic tree rather than static marshal
// structs.
type element struct {
	name     string
	raw      string
	children []*element
}

// child returns the first direct child with the given local name, or nil.
func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// text returns the element's character data with surrounding whitespace
// trimmed. Container elements carry only indentation, which trims to "".
func (e *element) text() string {
	return strings.TrimSpace(e.raw)
}

// parseTree decodes an XML document into an element tree. Namespaces are
// discarded — profile files carry a namespace attribute on the root, but
// lookups are by local name only.
func parseTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	var root *element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, fmt.Errorf("multiple root elements")
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].raw += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	return root, nil
}
