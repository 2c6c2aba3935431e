package onetool

import (
	"github.com/beevik/etree"
)

// TextNode is one addressable line of a page: a single OE.
//
// Edits are applied to the underlying XML element and become visible to the
// collaborator with the next push.
type TextNode struct {
	oe    *OE
	ns    Namespace
	depth int
}

// ObjectID returns the ID of the underlying OE.
func (n *TextNode) ObjectID() string {
	return n.oe.ObjectID
}

// Depth is the nesting level of the OE, 0 for top level OEs.
func (n *TextNode) Depth() int {
	return n.depth
}

// OE returns the decoded paragraph.
func (n *TextNode) OE() *OE {
	return n.oe
}

// Text returns the current text of the line or an empty string.
func (n *TextNode) Text() string {
	return text(n.ns.first(n.oe.el, "T"))
}

// SetText replaces the text of the line.
func (n *TextNode) SetText(s string) {
	setText(n.textElement(), s)
	n.oe.Text = s
}

// Attr returns a formatting attribute of the line.
func (n *TextNode) Attr(key string) string {
	t := n.ns.first(n.oe.el, "T")
	if t == nil {
		return ""
	}
	return attr(t, key)
}

// SetAttr sets a formatting attribute on the text of the line.
func (n *TextNode) SetAttr(key, value string) {
	n.textElement().CreateAttr(key, value)
}

// textElement returns the T element of the OE, creating it if necessary.
// A new T goes before any nested OEChildren.
func (n *TextNode) textElement() *etree.Element {
	oe := n.oe.el
	if t := n.ns.first(oe, "T"); t != nil {
		return t
	}

	t := etree.NewElement("T")
	t.Space = oe.Space
	if children := n.ns.first(oe, "OEChildren"); children != nil {
		oe.InsertChildAt(children.Index(), t)
	} else {
		oe.AddChild(t)
	}
	return t
}

// Flatten returns the text-bearing nodes of a page in document order:
// the title OEs first, then the OEs of every outline at any depth.
func Flatten(pc *PageContent) []*TextNode {
	nodes := make([]*TextNode, 0)
	if pc == nil {
		return nodes
	}
	if t := pc.Title(); t != nil {
		nodes = appendNodes(nodes, t.oes, pc.ns, 0)
	}
	for _, o := range pc.Outlines() {
		nodes = appendNodes(nodes, o.oes, pc.ns, 0)
	}
	return nodes
}

func appendNodes(nodes []*TextNode, oes []*OE, ns Namespace, depth int) []*TextNode {
	for _, oe := range oes {
		nodes = append(nodes, &TextNode{oe: oe, ns: ns, depth: depth})
		nodes = appendNodes(nodes, oe.Children, ns, depth+1)
	}
	return nodes
}

// Project splits the flattened page into the title node and the addressable
// lines. The title is nil if the page has no title text node.
func Project(pc *PageContent) (*TextNode, []*TextNode) {
	nodes := Flatten(pc)
	if pc == nil {
		return nil, nodes
	}
	if t := pc.Title(); t != nil && t.Len() > 0 {
		return nodes[0], nodes[1:]
	}
	return nil, nodes
}

// Texts returns the text of each node, empty string for nodes without text.
func Texts(nodes []*TextNode) []string {
	result := make([]string, len(nodes))
	for i, n := range nodes {
		result[i] = n.Text()
	}
	return result
}
