// Package fs implements a Collaborator that keeps notebooks in a local
// directory.
//
// The directory holds the hierarchy in "hierarchy.xml" and the content of
// each page in "pages/<ID>.xml". Both use the same XML format a live
// collaborator sends, so a store can be filled with exported documents.
package fs

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/akeil/onetool"
	ufs "github.com/akeil/onetool/internal/fs"
	"github.com/akeil/onetool/internal/logging"
)

const (
	hierarchyFile = "hierarchy.xml"
	pagesDir      = "pages"
)

var _ onetool.Collaborator = (*Store)(nil)

// Store is a directory backed onetool.Collaborator.
type Store struct {
	base string
	ns   onetool.Namespace
	mx   sync.RWMutex
	now  func() time.Time
}

// NewStore returns a Store for the given directory.
// Documents are read and written with the given namespace.
func NewStore(base string, ns onetool.Namespace) *Store {
	return &Store{
		base: base,
		ns:   ns,
		now:  time.Now,
	}
}

// Init creates the directory with an empty hierarchy.
// An existing hierarchy is left alone.
func (s *Store) Init() error {
	s.mx.Lock()
	defer s.mx.Unlock()

	_, err := os.Stat(s.hierarchyPath())
	if err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	doc := etree.NewDocument()
	doc.SetRoot(s.element("Notebooks"))
	logging.Info("Initialize store in %q", s.base)
	return s.write(s.hierarchyPath(), doc)
}

func (s *Store) Namespace() string {
	return string(s.ns)
}

// GetHierarchy returns the subtree starting at the node with the given ID,
// pruned to the given scope. An empty ID starts at the root.
func (s *Store) GetHierarchy(startNodeID string, scope onetool.HierarchyScope) ([]byte, error) {
	logging.Debug("GetHierarchy %q, scope=%v", startNodeID, scope)
	s.mx.RLock()
	defer s.mx.RUnlock()

	doc, err := s.readHierarchy()
	if err != nil {
		return nil, err
	}

	node := doc.Root()
	if startNodeID != "" {
		node = findByID(node, startNodeID)
		if node == nil {
			return nil, onetool.NewNotFound("no hierarchy node with id %q", startNodeID)
		}
	}

	out := etree.NewDocument()
	out.SetRoot(detach(node))
	s.prune(out.Root(), scope, 0)

	return onetool.Serialize(out, s.ns)
}

// GetPageContent returns the stored page document.
// Binary data is always included, so info is not used.
func (s *Store) GetPageContent(pageID string, info onetool.PageInfo) ([]byte, error) {
	logging.Debug("GetPageContent %q", pageID)
	p, err := s.pagePath(pageID)
	if err != nil {
		return nil, err
	}

	s.mx.RLock()
	defer s.mx.RUnlock()

	data, err := ioutil.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, onetool.NewNotFound("no page with id %q", pageID)
		}
		return nil, err
	}
	return data, nil
}

// CreateNewPage appends an empty page to the end of a section.
func (s *Store) CreateNewPage(sectionID string) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	doc, err := s.readHierarchy()
	if err != nil {
		return err
	}
	section := findByID(doc.Root(), sectionID)
	if section == nil || !s.ns.Is(section, "Section") {
		return onetool.NewNotFound("no section with id %q", sectionID)
	}

	id := newID()
	now := s.now().UTC().Format(onetool.TimestampFormat)

	entry := s.element("Page")
	entry.CreateAttr("ID", id)
	entry.CreateAttr("name", "")
	entry.CreateAttr("dateTime", now)
	entry.CreateAttr("lastModifiedTime", now)
	entry.CreateAttr("pageLevel", "1")
	section.AddChild(entry)
	section.CreateAttr("lastModifiedTime", now)

	page := etree.NewDocument()
	page.SetRoot(s.blankPage(id, now))
	p, err := s.pagePath(id)
	if err != nil {
		return err
	}
	err = s.write(p, page)
	if err != nil {
		return err
	}

	logging.Info("Created page %q in section %q", id, sectionID)
	return s.write(s.hierarchyPath(), doc)
}

// UpdatePageContent replaces a page with the given document.
// The page is identified by the ID of the root element and must exist.
func (s *Store) UpdatePageContent(xml []byte) error {
	doc, err := onetool.ParseDocument(xml)
	if err != nil {
		return err
	}
	root := doc.Root()
	if !s.ns.Is(root, "Page") {
		return fmt.Errorf("document root is %q, not a page", root.Tag)
	}
	id := root.SelectAttrValue("ID", "")
	if id == "" {
		return fmt.Errorf("page has no ID")
	}

	s.mx.Lock()
	defer s.mx.Unlock()

	h, err := s.readHierarchy()
	if err != nil {
		return err
	}
	entry := findByID(h.Root(), id)
	if entry == nil || !s.ns.Is(entry, "Page") {
		return onetool.NewNotFound("no page with id %q", id)
	}

	now := s.now().UTC().Format(onetool.TimestampFormat)
	root.CreateAttr("lastModifiedTime", now)
	entry.CreateAttr("lastModifiedTime", now)
	if t := onetool.DecodePageContent(root, s.ns).Title(); t != nil {
		entry.CreateAttr("name", t.Text())
		root.CreateAttr("name", t.Text())
	}

	p, err := s.pagePath(id)
	if err != nil {
		return err
	}
	err = s.write(p, doc)
	if err != nil {
		return err
	}

	logging.Debug("Updated page %q", id)
	return s.write(s.hierarchyPath(), h)
}

// AddNotebook adds an empty notebook and returns its ID.
func (s *Store) AddNotebook(name string) (string, error) {
	return s.add("", "Notebook", name)
}

// AddSection adds an empty section to a notebook or section group
// and returns its ID.
func (s *Store) AddSection(parentID, name string) (string, error) {
	return s.add(parentID, "Section", name)
}

func (s *Store) add(parentID, kind, name string) (string, error) {
	s.mx.Lock()
	defer s.mx.Unlock()

	doc, err := s.readHierarchy()
	if err != nil {
		return "", err
	}

	parent := doc.Root()
	if parentID != "" {
		parent = findByID(parent, parentID)
		if parent == nil || !(s.ns.Is(parent, "Notebook") || s.ns.Is(parent, "SectionGroup")) {
			return "", onetool.NewNotFound("no notebook or section group with id %q", parentID)
		}
	}

	id := newID()
	el := s.element(kind)
	el.CreateAttr("name", name)
	el.CreateAttr("ID", id)
	el.CreateAttr("lastModifiedTime", s.now().UTC().Format(onetool.TimestampFormat))
	parent.AddChild(el)

	logging.Info("Added %v %q with id %q", strings.ToLower(kind), name, id)
	return id, s.write(s.hierarchyPath(), doc)
}

// prune removes the elements below what scope asks for.
func (s *Store) prune(el *etree.Element, scope onetool.HierarchyScope, depth int) {
	for _, c := range el.ChildElements() {
		if s.keep(c, scope, depth+1) {
			s.prune(c, scope, depth+1)
		} else {
			el.RemoveChild(c)
		}
	}
}

func (s *Store) keep(el *etree.Element, scope onetool.HierarchyScope, depth int) bool {
	switch scope {
	case onetool.ScopeSelf:
		return false
	case onetool.ScopeChildren:
		return depth <= 1
	case onetool.ScopeNotebooks:
		return s.ns.Is(el, "Notebook")
	case onetool.ScopeSections:
		return !s.ns.Is(el, "Page") && !s.ns.Is(el, "Meta")
	default:
		return true
	}
}

func (s *Store) blankPage(id, now string) *etree.Element {
	page := s.element("Page")
	page.CreateAttr("ID", id)
	page.CreateAttr("name", "")
	page.CreateAttr("dateTime", now)
	page.CreateAttr("lastModifiedTime", now)
	page.CreateAttr("pageLevel", "1")
	page.CreateAttr("lang", "en-US")

	title := s.element("Title")
	title.CreateAttr("lang", "en-US")
	oe := s.element("OE")
	t := s.element("T")
	t.SetCData("")
	oe.AddChild(t)
	title.AddChild(oe)
	page.AddChild(title)
	return page
}

func (s *Store) element(local string) *etree.Element {
	el := etree.NewElement(local)
	el.Space = onetool.Prefix
	return el
}

func (s *Store) readHierarchy() (*etree.Document, error) {
	data, err := ioutil.ReadFile(s.hierarchyPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, onetool.NewNotFound("no hierarchy in %q", s.base)
		}
		return nil, err
	}
	return onetool.ParseDocument(data)
}

func (s *Store) write(path string, doc *etree.Document) error {
	data, err := onetool.Serialize(doc, s.ns)
	if err != nil {
		return err
	}
	return ufs.WriteFile(path, data)
}

func (s *Store) hierarchyPath() string {
	return filepath.Join(s.base, hierarchyFile)
}

func (s *Store) pagePath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid page id %q", id)
	}
	return filepath.Join(s.base, pagesDir, id+".xml"), nil
}

// detach copies el and carries over the namespace declarations of its
// ancestors, so the copy resolves prefixes on its own.
func detach(el *etree.Element) *etree.Element {
	c := el.Copy()
	for p := el.Parent(); p != nil; p = p.Parent() {
		for _, a := range p.Attr {
			if a.Space != "xmlns" && !(a.Space == "" && a.Key == "xmlns") {
				continue
			}
			if c.SelectAttr(a.FullKey()) == nil {
				c.CreateAttr(a.FullKey(), a.Value)
			}
		}
	}
	return c
}

// findByID returns the first element at or below el with the given ID.
func findByID(el *etree.Element, id string) *etree.Element {
	if el.SelectAttrValue("ID", "") == id {
		return el
	}
	for _, c := range el.ChildElements() {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func newID() string {
	return "{" + strings.ToUpper(uuid.New().String()) + "}"
}
