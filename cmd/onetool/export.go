package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/akeil/onetool"
	ufs "github.com/akeil/onetool/internal/fs"
)

func doExport(s settings, sectionKey, outDir string) error {
	c, done, err := setupCollaborator(s)
	if err != nil {
		return err
	}
	defer done()

	o, err := onetool.NewOneNote(c)
	if err != nil {
		return err
	}
	section, err := o.Section(sectionKey)
	if err != nil {
		return err
	}
	if len(section.Pages) == 0 {
		fmt.Printf("Section %q has no pages\n", section.DisplayName())
		return nil
	}

	err = os.MkdirAll(outDir, 0755)
	if err != nil {
		return err
	}

	var group errgroup.Group
	for _, p := range section.Pages {
		p := p
		group.Go(func() error {
			return exportPage(c, p, outDir)
		})
	}
	return group.Wait()
}

// exportPage writes the title and lines of a page to a text file.
// Each page uses its own editor.
func exportPage(c onetool.Collaborator, p *onetool.Page, outDir string) error {
	fmt.Printf("%v fetch %q\n", ellipsis, p.DisplayName())
	e := onetool.NewEditor(c)
	err := e.Open(p)
	if err != nil {
		fmt.Printf("%v Failed to fetch %q: %v\n", crossmark, p.DisplayName(), err)
		return err
	}

	var buf bytes.Buffer
	err = e.Print(&buf)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, fileName(p))
	err = ufs.WriteFile(path, buf.Bytes())
	if err != nil {
		fmt.Printf("%v Failed to write %q: %v\n", crossmark, path, err)
		return err
	}

	fmt.Printf("%v page %q saved as %q.\n", checkmark, p.DisplayName(), path)
	return nil
}

var unsafeChars = strings.NewReplacer("/", "_", `\`, "_", ":", "_", "{", "", "}", "")

// fileName includes the page ID so pages with the same name do not collide.
func fileName(p *onetool.Page) string {
	return unsafeChars.Replace(p.DisplayName()+"-"+p.ID) + ".txt"
}
