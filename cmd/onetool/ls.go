package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akeil/onetool"
)

func doLs(s settings, format, match string) error {
	c, done, err := setupCollaborator(s)
	if err != nil {
		return err
	}
	defer done()

	o, err := onetool.NewOneNote(c)
	if err != nil {
		return err
	}

	notebooks := o.Notebooks()
	if len(notebooks) == 0 {
		fmt.Println("Found no notebooks.")
		return nil
	}

	switch format {
	case "tree":
		return showTree(os.Stdout, notebooks, match)
	case "list":
		return showList(os.Stdout, notebooks, match)
	default:
		return fmt.Errorf("unsupported format, choose one of 'tree', 'list'")
	}
}

func showTree(w io.Writer, notebooks []*onetool.Notebook, match string) error {
	matches := onetool.MatchName(match)
	return onetool.Walk(notebooks, func(e onetool.Entry, depth int) error {
		_, isPage := e.(*onetool.Page)
		if isPage && match != "" && !matches(e) {
			return nil
		}

		fmt.Fprint(w, strings.Repeat("  ", depth))
		if isPage {
			fmt.Fprint(w, "- ")
		} else {
			fmt.Fprint(w, "+ ")
		}
		fmt.Fprint(w, e.DisplayName())
		if s, ok := e.(*onetool.Section); ok && s.ReadOnly {
			fmt.Fprint(w, " (read-only)")
		}
		fmt.Fprintln(w)
		return nil
	})
}

func showList(w io.Writer, notebooks []*onetool.Notebook, match string) error {
	dateFormat := "Jan 02 2006, 15:04"

	filters := []onetool.EntryFilter{onetool.IsPage}
	if match != "" {
		filters = append(filters, onetool.MatchName(match))
	}

	pages := onetool.Filter(notebooks, filters...)
	if len(pages) == 0 {
		fmt.Fprintln(w, "Found no matching pages.")
		return nil
	}

	for _, e := range pages {
		p := e.(*onetool.Page)
		created := "                  "
		if t, err := p.Created(); err == nil {
			created = t.Local().Format(dateFormat)
		}
		fmt.Fprintf(w, "%v | %v | %v\n", created, p.ID, p.DisplayName())
	}
	return nil
}
