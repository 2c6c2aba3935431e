package main

import (
	"fmt"
	"os"

	"github.com/akeil/onetool"
)

func doCat(s settings, page string) error {
	e, done, err := openPage(s, page)
	if err != nil {
		return err
	}
	defer done()

	return e.Print(os.Stdout)
}

func doTitle(s settings, page, title string) error {
	e, done, err := openPage(s, page)
	if err != nil {
		return err
	}
	defer done()

	err = e.UpdateTitle(title)
	if err != nil {
		fmt.Printf("%v Failed to change title: %v\n", crossmark, err)
		return err
	}
	fmt.Printf("%v Changed title to %q\n", checkmark, e.Title())
	return nil
}

func doSet(s settings, page string, index int, lines []string) error {
	e, done, err := openPage(s, page)
	if err != nil {
		return err
	}
	defer done()

	dropped := len(lines) - (e.Len() - index)
	if dropped > len(lines) {
		dropped = len(lines)
	}
	if dropped > 0 {
		fmt.Printf("%v Page has %d lines, %d of the given lines are dropped\n", ellipsis, e.Len(), dropped)
	}

	err = e.UpdateLines(lines, index)
	if err != nil {
		return err
	}
	fmt.Printf("%v Updated lines of %q\n", checkmark, e.Title())
	return nil
}

func doAppend(s settings, page string, lines []string) error {
	e, done, err := openPage(s, page)
	if err != nil {
		return err
	}
	defer done()

	err = e.AddLines(lines...)
	if err != nil {
		return err
	}
	fmt.Printf("%v Added %d lines to %q\n", checkmark, len(lines), e.Title())
	return nil
}

func doFormat(s settings, page, key, value string, indices []int) error {
	e, done, err := openPage(s, page)
	if err != nil {
		return err
	}
	defer done()

	err = e.FormatLines(indices, key, value)
	if err != nil {
		return err
	}
	fmt.Printf("%v Set %v=%q on %d lines\n", checkmark, key, value, len(indices))
	return nil
}

func doNew(s settings, sectionKey, title string, lines []string) error {
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
	if section.ReadOnly {
		return fmt.Errorf("section %q is read-only", section.DisplayName())
	}

	e := onetool.NewEditor(c)
	err = e.Create(section, title, lines...)
	if err != nil {
		fmt.Printf("%v Failed to create page in %q: %v\n", crossmark, section.DisplayName(), err)
		return err
	}
	fmt.Printf("%v Created page %q (%v)\n", checkmark, e.Title(), e.Page().ID)
	return nil
}
