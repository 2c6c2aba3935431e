package onetool

import (
	"regexp"
	"strings"

	"github.com/akeil/onetool/internal/logging"
)

// Decision is the answer of a ConfirmFunc.
type Decision int

const (
	Accept Decision = iota
	Skip
)

// ConfirmFunc is asked before each replacement in ReplaceInXML.
type ConfirmFunc func(original, replacement string) Decision

// ReplaceOptions control ReplaceInXML.
type ReplaceOptions struct {
	// DryRun computes the replacements without sending them.
	DryRun bool
	// Confirm is asked for every replacement; nil accepts all.
	Confirm ConfirmFunc
}

// Replacement is a single applied replacement.
type Replacement struct {
	Original    string
	Replacement string
}

// ReplaceResult lists what ReplaceInXML applied and skipped.
// Originals have line breaks replaced by spaces.
type ReplaceResult struct {
	Applied []Replacement
	Skipped []string
}

// Raw returns the XML of the page as last fetched from the collaborator.
func (e *Editor) Raw() []byte {
	result := make([]byte, len(e.raw))
	copy(result, e.raw)
	return result
}

// FindInXML returns all matches of the given regular expressions in the raw
// page XML, grouped by pattern in the order given.
func (e *Editor) FindInXML(patterns ...string) ([]string, error) {
	err := e.require("FindInXML")
	if err != nil {
		return nil, err
	}

	xml := string(e.raw)
	found := make([]string, 0)
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Wrap(err, "invalid pattern %q", p)
		}
		found = append(found, re.FindAllString(xml, -1)...)
	}
	return found, nil
}

// ReplaceInXML replaces text in the raw page XML, bypassing the typed tree.
//
// Originals are matched literally and paired with replacements by position.
// Unless DryRun is set, the edited XML is checked to still parse and then
// sent to the collaborator; if it does not parse, an
// *InvalidReplacementError is returned and nothing is sent.
func (e *Editor) ReplaceInXML(originals, replacements []string, opts ReplaceOptions) (*ReplaceResult, error) {
	err := e.require("ReplaceInXML")
	if err != nil {
		return nil, err
	}

	result := &ReplaceResult{
		Applied: make([]Replacement, 0),
		Skipped: make([]string, 0),
	}

	xml := string(e.raw)
	for i, orig := range originals {
		if i >= len(replacements) {
			break
		}
		rep := replacements[i]
		if opts.Confirm != nil && opts.Confirm(orig, rep) == Skip {
			result.Skipped = append(result.Skipped, oneLine(orig))
			continue
		}
		result.Applied = append(result.Applied, Replacement{oneLine(orig), rep})
		xml = strings.ReplaceAll(xml, orig, rep)
	}

	if opts.DryRun {
		logging.Info("Dry run for page %q (changes not applied)", e.page.ID)
		return result, nil
	}

	doc, err := ParseDocument([]byte(xml))
	if err != nil {
		return result, &InvalidReplacementError{Err: err}
	}
	data, err := Serialize(doc, e.ns)
	if err != nil {
		return result, &InvalidReplacementError{Err: err}
	}

	return result, e.submit(data)
}

// OverwriteContent replaces the page with the given XML.
// The XML must parse; it is sent as given.
func (e *Editor) OverwriteContent(xml []byte) error {
	err := e.require("OverwriteContent")
	if err != nil {
		return err
	}
	_, err = ParseDocument(xml)
	if err != nil {
		return &InvalidReplacementError{Err: err}
	}
	return e.submit(xml)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\r\n", " ")
}
