package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/akeil/onetool"
	"github.com/akeil/onetool/pkg/bridge"
	"github.com/akeil/onetool/pkg/fs"
)

const (
	checkmark = "✓"
	crossmark = "✗"
	ellipsis  = "…"
)

type settings struct {
	storeDir  string
	bridgeURL string
	token     string
	version   string
}

func main() {
	app := kingpin.New("onetool", "Edit OneNote pages from the command line")
	app.HelpFlag.Short('h')

	var s settings
	app.Flag("store", "Use notebooks from this directory").Envar("ONETOOL_STORE").StringVar(&s.storeDir)
	app.Flag("bridge", "Websocket URL of the automation bridge").Envar("ONETOOL_BRIDGE").StringVar(&s.bridgeURL)
	app.Flag("token", "Bearer token for the bridge").Envar("ONETOOL_TOKEN").StringVar(&s.token)
	app.Flag("version", "Interface version (2010, 2013)").Envar("ONETOOL_VERSION").Default("2010").StringVar(&s.version)
	logLevel := app.Flag("log-level", "Log level (debug, info, warning, error, off)").Envar("ONETOOL_LOG_LEVEL").Default("warning").String()

	ls := app.Command("ls", "List notebooks, sections and pages").Default()
	var (
		format = ls.Flag("format", "Output format (tree, list)").Short('f').Default("tree").String()
		match  = ls.Arg("match", "Show pages whose name contains this").String()
	)

	cat := app.Command("cat", "Print the title and lines of a page")
	catPage := cat.Arg("page", "Page ID or name").Required().String()

	title := app.Command("title", "Change the title of a page")
	var (
		titlePage = title.Arg("page", "Page ID or name").Required().String()
		titleText = title.Arg("text", "New title").Required().String()
	)

	set := app.Command("set", "Overwrite lines, starting at INDEX")
	var (
		setPage  = set.Arg("page", "Page ID or name").Required().String()
		setIndex = set.Arg("index", "Index of the first line").Required().Int()
		setText  = set.Arg("text", "Lines").Required().Strings()
	)

	add := app.Command("append", "Add lines at the end of a page")
	var (
		addPage = add.Arg("page", "Page ID or name").Required().String()
		addText = add.Arg("text", "Lines").Required().Strings()
	)

	fmtCmd := app.Command("format", "Set a formatting attribute on lines")
	var (
		fmtPage    = fmtCmd.Arg("page", "Page ID or name").Required().String()
		fmtKey     = fmtCmd.Arg("key", "Attribute name, e.g. style").Required().String()
		fmtValue   = fmtCmd.Arg("value", "Attribute value").Required().String()
		fmtIndices = fmtCmd.Arg("index", "Line indices").Required().Ints()
	)

	newCmd := app.Command("new", "Create a page in a section")
	var (
		newSection = newCmd.Arg("section", "Section ID or name").Required().String()
		newTitle   = newCmd.Arg("title", "Page title").Required().String()
		newText    = newCmd.Arg("text", "Initial lines").Strings()
	)

	grep := app.Command("grep", "Search the XML of a page with regular expressions")
	var (
		grepPage     = grep.Arg("page", "Page ID or name").Required().String()
		grepPatterns = grep.Arg("pattern", "Regular expressions").Required().Strings()
	)

	replace := app.Command("replace", "Replace text in the XML of a page")
	var (
		replacePage  = replace.Arg("page", "Page ID or name").Required().String()
		replaceOrig  = replace.Arg("original", "Text to replace").Required().String()
		replaceNew   = replace.Arg("replacement", "Replacement").Required().String()
		replaceApply = replace.Flag("apply", "Send the changes (default is a dry run)").Bool()
		replaceYes   = replace.Flag("yes", "Do not ask for confirmation").Short('y').Bool()
	)

	export := app.Command("export", "Save the pages of a section as text files")
	var (
		exportSection = export.Arg("section", "Section ID or name").Required().String()
		exportDir     = export.Flag("output", "Output directory").Short('o').Default(".").String()
	)

	app.Command("init", "Create an empty store (requires --store)")

	mknb := app.Command("mknotebook", "Add a notebook to the store")
	mknbName := mknb.Arg("name", "Notebook name").Required().String()

	mksec := app.Command("mksection", "Add a section to the store")
	var (
		mksecParent = mksec.Arg("parent", "Notebook or section group ID").Required().String()
		mksecName   = mksec.Arg("name", "Section name").Required().String()
	)

	serve := app.Command("serve", "Serve the store to bridge clients")
	serveAddr := serve.Flag("listen", "Listen address").Default("localhost:8765").String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	onetool.SetLogLevel(*logLevel)

	var err error
	switch command {
	case "ls":
		err = doLs(s, *format, *match)
	case "cat":
		err = doCat(s, *catPage)
	case "title":
		err = doTitle(s, *titlePage, *titleText)
	case "set":
		err = doSet(s, *setPage, *setIndex, *setText)
	case "append":
		err = doAppend(s, *addPage, *addText)
	case "format":
		err = doFormat(s, *fmtPage, *fmtKey, *fmtValue, *fmtIndices)
	case "new":
		err = doNew(s, *newSection, *newTitle, *newText)
	case "grep":
		err = doGrep(s, *grepPage, *grepPatterns)
	case "replace":
		err = doReplace(s, *replacePage, *replaceOrig, *replaceNew, *replaceApply, *replaceYes)
	case "export":
		err = doExport(s, *exportSection, *exportDir)
	case "init":
		err = doInit(s)
	case "mknotebook":
		err = doMkNotebook(s, *mknbName)
	case "mksection":
		err = doMkSection(s, *mksecParent, *mksecName)
	case "serve":
		err = doServe(s, *serveAddr)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// common ---------------------------------------------------------------------

// setupCollaborator connects to the configured backend.
// The returned function releases the connection.
func setupCollaborator(s settings) (onetool.Collaborator, func(), error) {
	version, err := onetool.ParseVersion(s.version)
	if err != nil {
		return nil, nil, err
	}

	switch {
	case s.storeDir != "" && s.bridgeURL != "":
		return nil, nil, fmt.Errorf("use either --store or --bridge, not both")
	case s.storeDir != "":
		store, err := setupStore(s)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case s.bridgeURL != "":
		client, err := bridge.Dial(s.bridgeURL, s.token, version)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("no backend, set --store or --bridge")
}

func setupStore(s settings) (*fs.Store, error) {
	if s.storeDir == "" {
		return nil, fmt.Errorf("this command requires --store")
	}
	version, err := onetool.ParseVersion(s.version)
	if err != nil {
		return nil, err
	}
	ns, err := version.Namespace()
	if err != nil {
		return nil, err
	}
	return fs.NewStore(s.storeDir, ns), nil
}

// resolvePage finds a page by ID or by its exact name.
func resolvePage(o *onetool.OneNote, key string) (*onetool.Page, error) {
	p, err := o.Page(key)
	if err == nil {
		return p, nil
	}

	var found *onetool.Page
	for _, e := range onetool.Filter(o.Notebooks(), onetool.IsPage, onetool.MatchName(key)) {
		page := e.(*onetool.Page)
		if !strings.EqualFold(page.Name, key) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("page name %q is ambiguous, use the page ID", key)
		}
		found = page
	}
	if found == nil {
		return nil, onetool.NewNotFound("no page %q", key)
	}
	return found, nil
}

// openPage connects, looks up the page and opens it in an editor.
func openPage(s settings, key string) (*onetool.Editor, func(), error) {
	c, done, err := setupCollaborator(s)
	if err != nil {
		return nil, nil, err
	}

	o, err := onetool.NewOneNote(c)
	if err != nil {
		done()
		return nil, nil, err
	}
	page, err := resolvePage(o, key)
	if err != nil {
		done()
		return nil, nil, err
	}

	e := onetool.NewEditor(c)
	err = e.Open(page)
	if err != nil {
		done()
		return nil, nil, err
	}
	return e, done, nil
}
