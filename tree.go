package onetool

import (
	"errors"
	"strings"
)

// Entry is any item in the hierarchy tree:
// a notebook, section group, section or page.
type Entry interface {
	Identified
	DisplayName() string
}

// WalkFunc is called for every entry visited by Walk.
// Depth is 0 for notebooks.
type WalkFunc func(e Entry, depth int) error

// SkipChildren can be returned from a WalkFunc to skip the children of the
// current entry.
var SkipChildren = errors.New("skip children")

// Walk visits the hierarchy depth first, in document order.
// Recycle bins are not visited.
func Walk(notebooks []*Notebook, fn WalkFunc) error {
	for _, n := range notebooks {
		err := fn(n, 0)
		if err == SkipChildren {
			continue
		} else if err != nil {
			return err
		}
		err = walkChildren(n.Children, 1, fn)
		if err != nil {
			return err
		}
	}
	return nil
}

func walkChildren(children []HierarchyChild, depth int, fn WalkFunc) error {
	for _, c := range children {
		err := fn(c, depth)
		if err == SkipChildren {
			continue
		} else if err != nil {
			return err
		}

		switch v := c.(type) {
		case *SectionGroup:
			err = walkChildren(v.Children, depth+1, fn)
		case *Section:
			for _, p := range v.Pages {
				err = fn(p, depth+1)
				if err == SkipChildren {
					err = nil
				} else if err != nil {
					break
				}
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FindSection looks up a section by ID anywhere in the hierarchy.
func FindSection(notebooks []*Notebook, id string) (*Section, error) {
	var found *Section
	err := Walk(notebooks, func(e Entry, depth int) error {
		if s, ok := e.(*Section); ok && s.ID == id {
			found = s
			return errStop
		}
		return nil
	})
	if err != nil && err != errStop {
		return nil, err
	}
	if found == nil {
		return nil, NewNotFound("no section with id %q", id)
	}
	return found, nil
}

// FindPage looks up a page by ID anywhere in the hierarchy.
func FindPage(notebooks []*Notebook, id string) (*Page, error) {
	var found *Page
	err := Walk(notebooks, func(e Entry, depth int) error {
		if p, ok := e.(*Page); ok && p.ID == id {
			found = p
			return errStop
		}
		return nil
	})
	if err != nil && err != errStop {
		return nil, err
	}
	if found == nil {
		return nil, NewNotFound("no page with id %q", id)
	}
	return found, nil
}

var errStop = errors.New("stop")

// EntryFilter selects entries from the hierarchy.
type EntryFilter func(e Entry) bool

// MatchName returns a filter for entries whose name contains s,
// case-insensitive.
func MatchName(s string) EntryFilter {
	s = strings.ToLower(s)
	return func(e Entry) bool {
		return strings.Contains(strings.ToLower(e.DisplayName()), s)
	}
}

// IsPage is a filter for pages.
func IsPage(e Entry) bool {
	_, ok := e.(*Page)
	return ok
}

// Filter collects all entries that match every filter, in walk order.
func Filter(notebooks []*Notebook, filters ...EntryFilter) []Entry {
	result := make([]Entry, 0)
	Walk(notebooks, func(e Entry, depth int) error {
		for _, f := range filters {
			if !f(e) {
				return nil
			}
		}
		result = append(result, e)
		return nil
	})
	return result
}
