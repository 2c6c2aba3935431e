package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akeil/onetool"
)

func doGrep(s settings, page string, patterns []string) error {
	e, done, err := openPage(s, page)
	if err != nil {
		return err
	}
	defer done()

	found, err := e.FindInXML(patterns...)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, f := range found {
		fmt.Println(f)
	}
	return nil
}

func doReplace(s settings, page, orig, rep string, apply, yes bool) error {
	e, done, err := openPage(s, page)
	if err != nil {
		return err
	}
	defer done()

	opts := onetool.ReplaceOptions{DryRun: !apply}
	if apply && !yes {
		opts.Confirm = confirmOn(os.Stdin, os.Stdout)
	}

	res, err := e.ReplaceInXML([]string{orig}, []string{rep}, opts)
	if err != nil {
		fmt.Printf("%v Replace failed: %v\n", crossmark, err)
		return err
	}

	for _, r := range res.Applied {
		fmt.Printf("%v %q -> %q\n", checkmark, r.Original, r.Replacement)
	}
	for _, r := range res.Skipped {
		fmt.Printf("%v skipped %q\n", crossmark, r)
	}
	if !apply {
		fmt.Println("Dry run, nothing was changed. Use --apply to send the changes.")
	}
	return nil
}

// confirmOn asks on w and reads the answer from r.
// Only "y" or "yes" accept a replacement.
func confirmOn(r io.Reader, w io.Writer) onetool.ConfirmFunc {
	scanner := bufio.NewScanner(r)
	return func(original, replacement string) onetool.Decision {
		fmt.Fprintf(w, "Replace %q with %q? [y/N] ", original, replacement)
		if !scanner.Scan() {
			return onetool.Skip
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return onetool.Accept
		default:
			return onetool.Skip
		}
	}
}
