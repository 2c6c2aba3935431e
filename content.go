package onetool

import (
	"github.com/beevik/etree"
)

// PageContent is the content of a single page:
// a title, outlines with text and the attachments placed on the page.
type PageContent struct {
	ID                string
	Name              string
	DateTime          string
	LastModifiedTime  string
	PageLevel         string
	Lang              string
	IsCurrentlyViewed bool
	// Children holds the title and outlines in document order.
	Children []ContentChild
	// Files holds page-level attachments. Their order relative to each
	// other and to the text is not preserved.
	Files []Attachment

	ns Namespace
	el *etree.Element
}

func (p *PageContent) Identity() string {
	return p.ID
}

func (p *PageContent) Len() int {
	return len(p.Children)
}

// Title returns the page title or nil if the page has none.
func (p *PageContent) Title() *Title {
	for _, c := range p.Children {
		if t, ok := c.(*Title); ok {
			return t
		}
	}
	return nil
}

// Outlines returns all outlines in document order.
func (p *PageContent) Outlines() []*Outline {
	result := make([]*Outline, 0)
	for _, c := range p.Children {
		if o, ok := c.(*Outline); ok {
			result = append(result, o)
		}
	}
	return result
}

// Playlist returns the media playlist of the page or nil.
func (p *PageContent) Playlist() *MediaPlaylist {
	for _, f := range p.Files {
		if m, ok := f.(*MediaPlaylist); ok {
			return m
		}
	}
	return nil
}

// ContentChild is a *Title or an *Outline.
type ContentChild interface {
	Container
	OEs() []*OE
	contentChild()
}

// Title holds the OEs that make up the page title.
type Title struct {
	Style string
	Lang  string
	oes   []*OE
}

func (t *Title) Len() int {
	return len(t.oes)
}

func (t *Title) OEs() []*OE {
	return t.oes
}

// Text returns the text of the first title OE.
func (t *Title) Text() string {
	if len(t.oes) == 0 {
		return ""
	}
	return t.oes[0].Text
}

func (t *Title) contentChild() {}

// Outline is a block of text on the page.
type Outline struct {
	Author                 string
	AuthorInitials         string
	LastModifiedBy         string
	LastModifiedByInitials string
	LastModifiedTime       string
	ObjectID               string
	oes                    []*OE
}

func (o *Outline) Identity() string {
	return o.ObjectID
}

func (o *Outline) Len() int {
	return len(o.oes)
}

func (o *Outline) OEs() []*OE {
	return o.oes
}

func (o *Outline) contentChild() {}

// OE is a paragraph of text. OEs nest to arbitrary depth.
type OE struct {
	CreationTime     string
	LastModifiedTime string
	LastModifiedBy   string
	ObjectID         string
	Alignment        string
	QuickStyleIndex  string
	Style            string
	Text             string
	Children         []*OE
	Files            []Attachment
	MediaIndices     []*MediaIndex

	el *etree.Element
}

func (o *OE) Identity() string {
	return o.ObjectID
}

func (o *OE) Len() int {
	return len(o.Children)
}

// DecodePageContent reads the content document of a single page.
// Unknown elements are ignored.
func DecodePageContent(root *etree.Element, ns Namespace) *PageContent {
	p := &PageContent{
		ID:                attr(root, "ID"),
		Name:              attr(root, "name"),
		DateTime:          attr(root, "dateTime"),
		LastModifiedTime:  attr(root, "lastModifiedTime"),
		PageLevel:         attr(root, "pageLevel"),
		Lang:              attr(root, "lang"),
		IsCurrentlyViewed: flag(root, "isCurrentlyViewed"),
		Children:          make([]ContentChild, 0),
		Files:             make([]Attachment, 0),
		ns:                ns,
		el:                root,
	}

	for _, el := range root.ChildElements() {
		switch {
		case ns.Is(el, "Title"):
			p.Children = append(p.Children, decodeTitle(el, ns))
		case ns.Is(el, "Outline"):
			p.Children = append(p.Children, decodeOutline(el, ns))
		case ns.Is(el, "Ink"):
			p.Files = append(p.Files, decodeInk(el, ns))
		case ns.Is(el, "Image"):
			p.Files = append(p.Files, decodeImage(el, ns))
		case ns.Is(el, "InsertedFile"):
			p.Files = append(p.Files, decodeInsertedFile(el))
		case ns.Is(el, "MediaFile"):
			p.Files = append(p.Files, decodeMediaFile(el, ns))
		case ns.Is(el, "MediaPlaylist"):
			p.Files = append(p.Files, decodeMediaPlaylist(el, ns))
		}
	}

	return p
}

func decodeTitle(el *etree.Element, ns Namespace) *Title {
	return &Title{
		Style: attr(el, "style"),
		Lang:  attr(el, "lang"),
		oes:   collectOEs(el, ns),
	}
}

func decodeOutline(el *etree.Element, ns Namespace) *Outline {
	return &Outline{
		Author:                 attr(el, "author"),
		AuthorInitials:         attr(el, "authorInitials"),
		LastModifiedBy:         attr(el, "lastModifiedBy"),
		LastModifiedByInitials: attr(el, "lastModifiedByInitials"),
		LastModifiedTime:       attr(el, "lastModifiedTime"),
		ObjectID:               attr(el, "objectID"),
		oes:                    collectOEs(el, ns),
	}
}

// collectOEs reads OE elements that are direct children of el or nested one
// level down in an OEChildren element.
func collectOEs(el *etree.Element, ns Namespace) []*OE {
	result := make([]*OE, 0)
	for _, c := range el.ChildElements() {
		switch {
		case ns.Is(c, "OE"):
			result = append(result, decodeOE(c, ns))
		case ns.Is(c, "OEChildren"):
			for _, cc := range c.ChildElements() {
				if ns.Is(cc, "OE") {
					result = append(result, decodeOE(cc, ns))
				}
			}
		}
	}
	return result
}

func decodeOE(el *etree.Element, ns Namespace) *OE {
	o := &OE{
		CreationTime:     attr(el, "creationTime"),
		LastModifiedTime: attr(el, "lastModifiedTime"),
		LastModifiedBy:   attr(el, "lastModifiedBy"),
		ObjectID:         attr(el, "objectID"),
		Alignment:        attr(el, "alignment"),
		QuickStyleIndex:  attr(el, "quickStyleIndex"),
		Style:            attr(el, "style"),
		Children:         make([]*OE, 0),
		Files:            make([]Attachment, 0),
		MediaIndices:     make([]*MediaIndex, 0),
		el:               el,
	}

	seenText := false
	for _, c := range el.ChildElements() {
		switch {
		case ns.Is(c, "T"):
			if !seenText {
				o.Text = text(c)
				seenText = true
			}
		case ns.Is(c, "OEChildren"):
			for _, cc := range c.ChildElements() {
				if ns.Is(cc, "OE") {
					o.Children = append(o.Children, decodeOE(cc, ns))
				}
			}
		case ns.Is(c, "Image"):
			o.Files = append(o.Files, decodeImage(c, ns))
		case ns.Is(c, "InkWord"), ns.Is(c, "Ink"):
			o.Files = append(o.Files, decodeInk(c, ns))
		case ns.Is(c, "InsertedFile"):
			o.Files = append(o.Files, decodeInsertedFile(c))
		case ns.Is(c, "MediaFile"):
			o.Files = append(o.Files, decodeMediaFile(c, ns))
		case ns.Is(c, "MediaIndex"):
			o.MediaIndices = append(o.MediaIndices, decodeMediaIndex(c, ns))
		}
	}

	return o
}
