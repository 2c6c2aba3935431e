package onetool

import (
	"fmt"
	"strings"
)

// Collaborator is the interface for the process that owns the document store.
//
// All calls block until the collaborator responds. Implementations exist for
// a websocket automation bridge (pkg/bridge) and for a local directory
// (pkg/fs).
type Collaborator interface {
	// GetHierarchy returns the hierarchy XML starting at the given node.
	// An empty ID starts at the root (all notebooks).
	GetHierarchy(startNodeID string, scope HierarchyScope) ([]byte, error)
	// GetPageContent returns the content XML for a single page.
	GetPageContent(pageID string, info PageInfo) ([]byte, error)
	// CreateNewPage appends a new, empty page to a section.
	// The new page is only observable through GetHierarchy.
	CreateNewPage(sectionID string) error
	// UpdatePageContent replaces the content of the page identified by the
	// ID attribute of the document's root element.
	UpdatePageContent(xml []byte) error
	// Namespace returns the XML namespace URI used in all documents.
	Namespace() string
}

// HierarchyScope controls how deep GetHierarchy descends.
type HierarchyScope int

const (
	ScopeSelf HierarchyScope = iota
	ScopeChildren
	ScopeNotebooks
	ScopeSections
	ScopePages
)

func (h HierarchyScope) String() string {
	switch h {
	case ScopeSelf:
		return "self"
	case ScopeChildren:
		return "children"
	case ScopeNotebooks:
		return "notebooks"
	case ScopeSections:
		return "sections"
	case ScopePages:
		return "pages"
	default:
		return fmt.Sprintf("HierarchyScope(%d)", int(h))
	}
}

// PageInfo selects optional data in GetPageContent.
type PageInfo int

const (
	PageInfoBasic      PageInfo = 0
	PageInfoBinaryData PageInfo = 1
	PageInfoSelection  PageInfo = 2
	PageInfoAll        PageInfo = 7
)

// Version is the interface version of the collaborator.
type Version int

const (
	Version2010 Version = 14
	Version2013 Version = 15
)

// DefaultVersion is used when no version is configured.
const DefaultVersion = Version2010

// Namespace returns the XML namespace URI for this version.
func (v Version) Namespace() (Namespace, error) {
	switch v {
	case Version2010:
		return "http://schemas.microsoft.com/office/onenote/2010/onenote", nil
	case Version2013:
		return "http://schemas.microsoft.com/office/onenote/2013/onenote", nil
	}
	return "", fmt.Errorf("unsupported interface version %d", int(v))
}

func (v Version) String() string {
	return fmt.Sprintf("%d", int(v))
}

// ParseVersion accepts a version number ("14", "15")
// or the release year ("2010", "2013").
func ParseVersion(s string) (Version, error) {
	switch strings.TrimSpace(s) {
	case "14", "2010":
		return Version2010, nil
	case "15", "2013":
		return Version2013, nil
	}
	return 0, fmt.Errorf("unsupported interface version %q", s)
}
