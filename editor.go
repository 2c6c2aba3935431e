package onetool

import (
	"fmt"
	"io"
	"time"

	"github.com/beevik/etree"

	"github.com/akeil/onetool/internal/logging"
)

// State is the state of an Editor.
type State int

const (
	Unopened State = iota
	Open
)

func (s State) String() string {
	switch s {
	case Unopened:
		return "unopened"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Editor edits the text of a single page as a list of lines.
//
// Every edit is applied to the parsed page, the whole page is sent to the
// collaborator and then fetched again, so the editor always reflects what
// the collaborator stored. An Editor must not be used concurrently.
type Editor struct {
	c     Collaborator
	ns    Namespace
	state State
	now   func() time.Time

	page    *Page
	raw     []byte
	doc     *etree.Document
	content *PageContent
	title   *TextNode
	lines   []*TextNode
}

// NewEditor creates an editor; the namespace is read from the collaborator
// once and used for the lifetime of the editor.
func NewEditor(c Collaborator) *Editor {
	return &Editor{
		c:     c,
		ns:    Namespace(c.Namespace()),
		state: Unopened,
		now:   time.Now,
		lines: make([]*TextNode, 0),
	}
}

func (e *Editor) State() State {
	return e.state
}

// Page returns the hierarchy entry of the open page or nil.
func (e *Editor) Page() *Page {
	return e.page
}

// Content returns the decoded content of the open page or nil.
func (e *Editor) Content() *PageContent {
	return e.content
}

// Title returns the page title, an empty string if there is none.
func (e *Editor) Title() string {
	if e.title == nil {
		return ""
	}
	return e.title.Text()
}

// Len returns the number of lines (not counting the title).
func (e *Editor) Len() int {
	return len(e.lines)
}

// Nodes returns the text nodes behind the lines.
func (e *Editor) Nodes() []*TextNode {
	return e.lines
}

// Lines returns the text of all lines.
func (e *Editor) Lines() []string {
	return Texts(e.lines)
}

// GetLines returns the text of the lines in [start, end).
// A negative end means "up to the last line"; the range is clamped to the
// available lines.
func (e *Editor) GetLines(start, end int) []string {
	n := len(e.lines)
	if end < 0 || end > n {
		end = n
	}
	if start < 0 {
		start = 0
	}
	if start >= end {
		return []string{}
	}
	return Texts(e.lines[start:end])
}

// Open loads the content of a page and makes it the current page.
func (e *Editor) Open(page *Page) error {
	if page == nil || page.ID == "" {
		return fmt.Errorf("cannot open page without ID")
	}

	prev := e.page
	e.page = page
	err := e.refresh()
	if err != nil {
		e.page = prev
		return err
	}

	e.state = Open
	logging.Info("Opened page %q with %d lines", page.ID, len(e.lines))
	return nil
}

// OpenID opens a page by its ID.
func (e *Editor) OpenID(pageID string) error {
	return e.Open(&Page{ID: pageID})
}

// UpdateTitle replaces the title text.
// A title is added to pages that have none.
func (e *Editor) UpdateTitle(title string) error {
	err := e.require("UpdateTitle")
	if err != nil {
		return err
	}

	if e.title == nil {
		e.title = e.createTitle()
	}
	e.title.SetText(title)

	return e.push()
}

// UpdateLines overwrites the text of existing lines, starting at start.
//
// Lines are never added or removed: supplied lines beyond the last existing
// line are dropped, and a start past the last line changes nothing.
func (e *Editor) UpdateLines(lines []string, start int) error {
	err := e.require("UpdateLines")
	if err != nil {
		return err
	}
	if start < 0 {
		return &RangeError{Index: start, Len: len(e.lines)}
	}
	if start > len(e.lines) {
		start = len(e.lines)
	}

	for i, node := range e.lines[start:] {
		if i >= len(lines) {
			break
		}
		node.SetText(lines[i])
	}

	return e.push()
}

// FormatLine sets an attribute on a single line.
func (e *Editor) FormatLine(index int, key, value string) error {
	return e.FormatLines([]int{index}, key, value)
}

// FormatLines sets an attribute on the text of each of the given lines.
func (e *Editor) FormatLines(indices []int, key, value string) error {
	err := e.require("FormatLines")
	if err != nil {
		return err
	}
	for _, i := range indices {
		if i < 0 || i >= len(e.lines) {
			return &RangeError{Index: i, Len: len(e.lines)}
		}
	}

	for _, i := range indices {
		e.lines[i].SetAttr(key, value)
	}

	return e.push()
}

// AddLines appends lines at the end of the first outline of the page.
// If the page has no outline, a new one is added as the first object after
// the title.
//
// The lines are added to a freshly fetched copy of the page.
func (e *Editor) AddLines(lines ...string) error {
	err := e.require("AddLines")
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}

	raw, err := e.c.GetPageContent(e.page.ID, PageInfoBasic)
	if err != nil {
		return Wrap(err, "get page content %q", e.page.ID)
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		return err
	}
	root := doc.Root()

	outline := newElement(root.Space, "Outline")
	group := newElement(root.Space, "OEChildren")
	outline.AddChild(group)
	for _, line := range lines {
		oe := newElement(root.Space, "OE")
		t := newElement(root.Space, "T")
		setText(t, line)
		oe.AddChild(t)
		group.AddChild(oe)
	}

	if first := e.ns.first(root, "Outline"); first != nil {
		if target := e.ns.first(first, "OEChildren"); target != nil {
			for _, oe := range group.ChildElements() {
				target.AddChild(oe)
			}
		} else {
			first.AddChild(group)
		}
	} else {
		e.insertOutline(root, outline)
	}

	data, err := Serialize(doc, e.ns)
	if err != nil {
		return err
	}
	logging.Debug("Add %d lines to page %q", len(lines), e.page.ID)
	return e.submit(data)
}

// Print writes the title and all lines to w.
func (e *Editor) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Title: %v\n", e.Title())
	if err != nil {
		return err
	}
	for _, line := range e.Lines() {
		_, err = fmt.Fprintln(w, line)
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) require(op string) error {
	if e.state != Open {
		return &InvalidStateError{Op: op, State: e.state}
	}
	return nil
}

// push sends the current document to the collaborator and refreshes.
func (e *Editor) push() error {
	data, err := Serialize(e.doc, e.ns)
	if err != nil {
		e.discard()
		return err
	}
	return e.submit(data)
}

// submit replaces the page content with data and refreshes.
// Nothing is sent unless data parses. On failure, local edits are discarded.
func (e *Editor) submit(data []byte) error {
	_, err := ParseDocument(data)
	if err != nil {
		e.discard()
		return err
	}

	logging.Debug("Push %d bytes to page %q", len(data), e.page.ID)
	err = e.c.UpdatePageContent(data)
	if err != nil {
		e.discard()
		return Wrap(err, "update page content %q", e.page.ID)
	}
	return e.refresh()
}

// discard drops edits the collaborator did not accept.
// The page is fetched again; if that fails, the last fetched content is
// restored.
func (e *Editor) discard() {
	err := e.refresh()
	if err == nil {
		return
	}
	logging.Warning("Failed to refresh page %q, restoring last fetched content: %v", e.page.ID, err)
	err = e.load(e.raw)
	if err != nil {
		logging.Error("Failed to restore page %q: %v", e.page.ID, err)
	}
}

// refresh fetches the current page and rebuilds all derived state.
// The previous tree is dropped.
func (e *Editor) refresh() error {
	raw, err := e.c.GetPageContent(e.page.ID, PageInfoBasic)
	if err != nil {
		return Wrap(err, "get page content %q", e.page.ID)
	}
	return e.load(raw)
}

func (e *Editor) load(raw []byte) error {
	doc, err := ParseDocument(raw)
	if err != nil {
		return err
	}

	content := DecodePageContent(doc.Root(), e.ns)
	title, lines := Project(content)

	e.raw = raw
	e.doc = doc
	e.content = content
	e.title = title
	e.lines = lines

	logging.Debug("Loaded page %q: %d bytes, %d lines", e.page.ID, len(raw), len(lines))
	return nil
}

// createTitle adds an empty OE to the title, adding the Title element itself
// before the first outline if necessary.
func (e *Editor) createTitle() *TextNode {
	root := e.doc.Root()
	oe := newElement(root.Space, "OE")

	if title := e.ns.first(root, "Title"); title != nil {
		title.AddChild(oe)
		return &TextNode{oe: &OE{el: oe}, ns: e.ns}
	}

	title := newElement(root.Space, "Title")
	title.AddChild(oe)
	if first := e.ns.first(root, "Outline"); first != nil {
		root.InsertChildAt(first.Index(), title)
	} else {
		root.AddChild(title)
	}

	return &TextNode{oe: &OE{el: oe}, ns: e.ns}
}

// insertOutline places a new outline directly after the title or, on pages
// without a title, ahead of the first object on the page.
func (e *Editor) insertOutline(root, outline *etree.Element) {
	if title := e.ns.first(root, "Title"); title != nil {
		root.InsertChildAt(title.Index()+1, outline)
		return
	}
	for _, c := range root.ChildElements() {
		switch {
		case e.ns.Is(c, "Image"), e.ns.Is(c, "Ink"), e.ns.Is(c, "InkDrawing"),
			e.ns.Is(c, "InsertedFile"), e.ns.Is(c, "MediaFile"):
			root.InsertChildAt(c.Index(), outline)
			return
		}
	}
	root.AddChild(outline)
}

func newElement(space, local string) *etree.Element {
	el := etree.NewElement(local)
	el.Space = space
	return el
}
