package onetool

import (
	"strings"

	"github.com/akeil/onetool/internal/logging"
)

// OneNote gives read access to the hierarchy and page contents.
type OneNote struct {
	c         Collaborator
	ns        Namespace
	notebooks []*Notebook
}

// NewOneNote reads the full hierarchy (down to pages) from the collaborator.
func NewOneNote(c Collaborator) (*OneNote, error) {
	o := &OneNote{
		c:  c,
		ns: Namespace(c.Namespace()),
	}
	err := o.Reload()
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Namespace returns the namespace read from the collaborator.
func (o *OneNote) Namespace() Namespace {
	return o.ns
}

// Reload fetches the hierarchy again.
func (o *OneNote) Reload() error {
	data, err := o.c.GetHierarchy("", ScopePages)
	if err != nil {
		return Wrap(err, "get hierarchy")
	}
	root, err := Parse(data)
	if err != nil {
		return err
	}
	o.notebooks = DecodeHierarchy(root, o.ns)
	logging.Debug("Loaded hierarchy with %d notebooks", len(o.notebooks))
	return nil
}

// Notebooks returns the notebooks in document order.
func (o *OneNote) Notebooks() []*Notebook {
	return o.notebooks
}

// Section looks up a section by ID or, failing that, by its exact name.
func (o *OneNote) Section(key string) (*Section, error) {
	s, err := FindSection(o.notebooks, key)
	if err == nil {
		return s, nil
	}
	for _, e := range Filter(o.notebooks, MatchName(key)) {
		if s, ok := e.(*Section); ok && strings.EqualFold(s.Name, key) {
			return s, nil
		}
	}
	return nil, err
}

// Page looks up a page by ID.
func (o *OneNote) Page(id string) (*Page, error) {
	return FindPage(o.notebooks, id)
}

// PageContent fetches and decodes the content of a page.
func (o *OneNote) PageContent(pageID string, info PageInfo) (*PageContent, error) {
	data, err := o.c.GetPageContent(pageID, info)
	if err != nil {
		return nil, Wrap(err, "get page content %q", pageID)
	}
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return DecodePageContent(root, o.ns), nil
}
