package onetool

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// Prefix is the canonical namespace prefix for page and hierarchy documents.
const Prefix = "one"

const declaration = `<?xml version="1.0"?>` + "\n"

var leadingDecl = regexp.MustCompile(`^\s*<\?xml[^>]*\?>\s*`)

// Namespace is the XML namespace URI used by the collaborator.
//
// It is read once from the Collaborator and passed to every decode call.
type Namespace string

// Is tells if el has the given local name and belongs to this namespace.
func (ns Namespace) Is(el *etree.Element, local string) bool {
	if el == nil || el.Tag != local {
		return false
	}
	return el.NamespaceURI() == string(ns)
}

// first returns the first child element of el with the given local name.
func (ns Namespace) first(el *etree.Element, local string) *etree.Element {
	for _, c := range el.ChildElements() {
		if ns.Is(c, local) {
			return c
		}
	}
	return nil
}

// Parse reads raw XML and returns the root element of the document.
// Malformed input results in a *ParseError.
func Parse(data []byte) (*etree.Element, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

// ParseDocument is like Parse but returns the whole document.
func ParseDocument(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	err := doc.ReadFromBytes(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Root() == nil {
		return nil, &ParseError{Err: fmt.Errorf("document has no root element")}
	}
	return doc, nil
}

// Serialize writes the full document with an XML declaration.
//
// Elements and attributes bound to ns under a different prefix are rewritten
// to the canonical "one" prefix, and the root element always declares it.
func Serialize(doc *etree.Document, ns Namespace) ([]byte, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("cannot serialize empty document")
	}
	canonicalize(root, ns)

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, err
	}
	data = leadingDecl.ReplaceAll(data, nil)

	var buf bytes.Buffer
	buf.Grow(len(declaration) + len(data))
	buf.WriteString(declaration)
	buf.Write(data)
	return buf.Bytes(), nil
}

type attrRef struct {
	el  *etree.Element
	idx int
}

func canonicalize(root *etree.Element, ns Namespace) {
	var elems []*etree.Element
	var attrs []attrRef
	var all []*etree.Element

	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		all = append(all, el)
		if el.Space != Prefix && el.NamespaceURI() == string(ns) {
			elems = append(elems, el)
		}
		for i, a := range el.Attr {
			if a.Space == "" || a.Space == "xmlns" || a.Space == Prefix {
				continue
			}
			if a.NamespaceURI() == string(ns) {
				attrs = append(attrs, attrRef{el, i})
			}
		}
		for _, c := range el.ChildElements() {
			walk(c)
		}
	}
	walk(root)

	for _, el := range elems {
		el.Space = Prefix
	}
	for _, r := range attrs {
		r.el.Attr[r.idx].Space = Prefix
	}

	// rebind declarations of ns to the canonical prefix and drop "one"
	// when it is bound to anything else
	for _, el := range all {
		canonical := false
		for _, a := range el.Attr {
			if a.Space == "xmlns" && a.Key == Prefix && a.Value == string(ns) {
				canonical = true
			}
		}
		kept := el.Attr[:0]
		for _, a := range el.Attr {
			if a.Space == "xmlns" {
				if a.Key == Prefix && a.Value != string(ns) {
					continue
				}
				if a.Key != Prefix && a.Value == string(ns) {
					if canonical {
						continue
					}
					a.Key = Prefix
					canonical = true
				}
			}
			kept = append(kept, a)
		}
		el.Attr = kept
	}

	if root.SelectAttr("xmlns:"+Prefix) == nil {
		root.CreateAttr("xmlns:"+Prefix, string(ns))
	}
}

// attr returns the value of the attribute key or an empty string.
func attr(el *etree.Element, key string) string {
	return el.SelectAttrValue(key, "")
}

// flag interprets an attribute as a boolean; anything but "true" is false.
func flag(el *etree.Element, key string) bool {
	return attr(el, key) == "true"
}

// text returns the character data of el (plain or CDATA) or an empty string.
func text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return el.Text()
}

// setText stores s as a CDATA section. Text that contains the CDATA
// terminator is written as escaped character data instead.
func setText(el *etree.Element, s string) {
	if strings.Contains(s, "]]>") {
		el.SetText(s)
		return
	}
	el.SetCData(s)
}
