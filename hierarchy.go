package onetool

import (
	"time"

	"github.com/beevik/etree"
)

// Identified is implemented by nodes with a stable ID.
type Identified interface {
	Identity() string
}

// Container is implemented by nodes with an ordered list of children.
type Container interface {
	Len() int
}

// Named holds the display name shared by all hierarchy entries.
type Named struct {
	Name string
}

// DisplayName returns the name or a placeholder for unnamed entries.
func (n *Named) DisplayName() string {
	if n.Name == "" {
		return "NO_NAME"
	}
	return n.Name
}

// HierarchyNode holds the fields common to notebooks, section groups and
// sections.
type HierarchyNode struct {
	Named
	Path             string
	ID               string
	LastModifiedTime string
}

func (h *HierarchyNode) Identity() string {
	return h.ID
}

func (h *HierarchyNode) decode(el *etree.Element) {
	h.Name = attr(el, "name")
	h.Path = attr(el, "path")
	h.ID = attr(el, "ID")
	h.LastModifiedTime = attr(el, "lastModifiedTime")
}

// HierarchyChild is a child of a Notebook or SectionGroup.
// It is either a *Section or a *SectionGroup.
type HierarchyChild interface {
	Identified
	Container
	DisplayName() string
	hierarchyChild()
}

// Notebook is the top level of the hierarchy.
//
// A section group marked as recycle bin is not part of Children,
// it is available through RecycleBin instead.
type Notebook struct {
	HierarchyNode
	Nickname          string
	Color             string
	IsCurrentlyViewed bool
	RecycleBin        *SectionGroup
	Children          []HierarchyChild
}

func (n *Notebook) Len() int {
	return len(n.Children)
}

// SectionGroup contains sections and nested section groups.
type SectionGroup struct {
	HierarchyNode
	IsRecycleBin bool
	Children     []HierarchyChild
}

func (s *SectionGroup) Len() int {
	return len(s.Children)
}

func (s *SectionGroup) hierarchyChild() {}

// Section holds pages in document order.
type Section struct {
	HierarchyNode
	Color             string
	ReadOnly          bool
	IsCurrentlyViewed bool
	Pages             []*Page
}

func (s *Section) Len() int {
	return len(s.Pages)
}

func (s *Section) hierarchyChild() {}

// Last returns the last page in the section or nil for an empty section.
func (s *Section) Last() *Page {
	if len(s.Pages) == 0 {
		return nil
	}
	return s.Pages[len(s.Pages)-1]
}

// Page is the hierarchy entry for a page; its content is fetched separately.
type Page struct {
	Named
	ID                string
	DateTime          string
	LastModifiedTime  string
	PageLevel         string
	IsCurrentlyViewed bool
	Meta              []Meta
}

func (p *Page) Identity() string {
	return p.ID
}

func (p *Page) Len() int {
	return len(p.Meta)
}

// Created parses the creation timestamp of the page.
func (p *Page) Created() (time.Time, error) {
	return parseTimestamp(p.DateTime)
}

// Meta is a name/content pair attached to a page.
type Meta struct {
	Name    string
	Content string
}

// DecodeHierarchy reads the notebooks from the root of a hierarchy document.
func DecodeHierarchy(root *etree.Element, ns Namespace) []*Notebook {
	notebooks := make([]*Notebook, 0)
	for _, el := range root.ChildElements() {
		if ns.Is(el, "Notebook") {
			notebooks = append(notebooks, DecodeNotebook(el, ns))
		}
	}
	return notebooks
}

// DecodeNotebook reads a single notebook element.
func DecodeNotebook(el *etree.Element, ns Namespace) *Notebook {
	n := &Notebook{
		Nickname:          attr(el, "nickname"),
		Color:             attr(el, "color"),
		IsCurrentlyViewed: flag(el, "isCurrentlyViewed"),
		Children:          make([]HierarchyChild, 0),
	}
	n.decode(el)

	for _, c := range el.ChildElements() {
		switch {
		case ns.Is(c, "Section"):
			n.Children = append(n.Children, DecodeSection(c, ns))
		case ns.Is(c, "SectionGroup"):
			g := DecodeSectionGroup(c, ns)
			if g.IsRecycleBin {
				n.RecycleBin = g
			} else {
				n.Children = append(n.Children, g)
			}
		}
	}
	return n
}

// DecodeSectionGroup reads a section group and its descendants.
// Nested recycle bins stay in Children.
func DecodeSectionGroup(el *etree.Element, ns Namespace) *SectionGroup {
	g := &SectionGroup{
		IsRecycleBin: flag(el, "isRecycleBin"),
		Children:     make([]HierarchyChild, 0),
	}
	g.decode(el)

	for _, c := range el.ChildElements() {
		switch {
		case ns.Is(c, "SectionGroup"):
			g.Children = append(g.Children, DecodeSectionGroup(c, ns))
		case ns.Is(c, "Section"):
			g.Children = append(g.Children, DecodeSection(c, ns))
		}
	}
	return g
}

// DecodeSection reads a section. Every child element is read as a page.
func DecodeSection(el *etree.Element, ns Namespace) *Section {
	s := &Section{
		Color:             attr(el, "color"),
		ReadOnly:          flag(el, "readOnly"),
		IsCurrentlyViewed: flag(el, "isCurrentlyViewed"),
	}
	s.decode(el)

	children := el.ChildElements()
	s.Pages = make([]*Page, len(children))
	for i, c := range children {
		s.Pages[i] = DecodePage(c)
	}
	return s
}

// DecodePage reads a page entry. Every child element is read as Meta.
func DecodePage(el *etree.Element) *Page {
	p := &Page{
		ID:                attr(el, "ID"),
		DateTime:          attr(el, "dateTime"),
		LastModifiedTime:  attr(el, "lastModifiedTime"),
		PageLevel:         attr(el, "pageLevel"),
		IsCurrentlyViewed: flag(el, "isCurrentlyViewed"),
	}
	p.Name = attr(el, "name")

	children := el.ChildElements()
	p.Meta = make([]Meta, len(children))
	for i, c := range children {
		p.Meta[i] = Meta{
			Name:    attr(c, "name"),
			Content: attr(c, "content"),
		}
	}
	return p
}

// TimestampFormat is the layout used for dateTime and lastModifiedTime.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

func parseTimestamp(s string) (time.Time, error) {
	// fractional seconds are optional when parsing
	return time.Parse(time.RFC3339, s)
}
