package onetool

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testNS = "http://schemas.microsoft.com/office/onenote/2010/onenote"

const hierarchyXML = `<?xml version="1.0"?>
<one:Notebooks xmlns:one="http://schemas.microsoft.com/office/onenote/2010/onenote">
  <one:Notebook name="Work" nickname="Work NB" ID="{NB1}" path="C:\Notes\Work\" lastModifiedTime="2020-01-02T10:00:00.000Z" color="#ADE792" isCurrentlyViewed="true">
    <one:Section name="Inbox" ID="{S1}" path="C:\Notes\Work\Inbox.one" lastModifiedTime="2020-01-02T10:00:00.000Z" color="#8AA8E4">
      <one:Page ID="{P1}" name="First" dateTime="2020-01-01T09:00:00.000Z" lastModifiedTime="2020-01-01T09:30:00.000Z" pageLevel="1">
        <one:Meta name="tag" content="todo"/>
      </one:Page>
      <one:Page ID="{P2}" name="Second" dateTime="2020-01-01T10:00:00.000Z" pageLevel="2"/>
    </one:Section>
    <one:SectionGroup name="Archive" ID="{G1}" path="C:\Notes\Work\Archive\">
      <one:Section name="2019" ID="{S2}" readOnly="true"/>
      <one:SectionGroup name="Old Bin" ID="{G1R}" isRecycleBin="true"/>
    </one:SectionGroup>
    <one:SectionGroup name="OneNote_RecycleBin" ID="{RB}" isRecycleBin="true">
      <one:Section name="Deleted Pages" ID="{S3}">
        <one:Page ID="{P9}" name="Gone"/>
      </one:Section>
    </one:SectionGroup>
  </one:Notebook>
  <one:Notebook name="Personal" ID="{NB2}"/>
</one:Notebooks>`

const pageXML = `<?xml version="1.0"?>
<one:Page xmlns:one="http://schemas.microsoft.com/office/onenote/2010/onenote" ID="{P1}" name="First" dateTime="2020-01-01T09:00:00.000Z" lastModifiedTime="2020-01-01T09:30:00.000Z" pageLevel="1" lang="en-US">
  <one:QuickStyleDef index="0" name="PageTitle" fontColor="automatic"/>
  <one:PageSettings RTL="false" color="automatic"/>
  <one:Title lang="en-US" style="font-size:20pt">
    <one:OE objectID="{T1}" alignment="left" quickStyleIndex="0">
      <one:T><![CDATA[My Page]]></one:T>
    </one:OE>
  </one:Title>
  <one:Outline author="Alice" authorInitials="A" objectID="{O1}" lastModifiedTime="2020-01-01T09:30:00.000Z">
    <one:Position x="36.0" y="86.4" z="0"/>
    <one:Size width="400.0" height="20.0"/>
    <one:OEChildren>
      <one:OE objectID="{L0}" creationTime="2020-01-01T09:01:00.000Z">
        <one:T><![CDATA[one]]></one:T>
      </one:OE>
      <one:OE objectID="{L1}">
        <one:T><![CDATA[two]]></one:T>
        <one:OEChildren>
          <one:OE objectID="{L2}">
            <one:T><![CDATA[two.a]]></one:T>
          </one:OE>
        </one:OEChildren>
      </one:OE>
      <one:OE objectID="{L3}">
        <one:T/>
      </one:OE>
      <one:OE objectID="{L4}">
        <one:T><![CDATA[five]]></one:T>
        <one:Image format="png" objectID="{I1}">
          <one:CallbackID callbackID="{CB1}"/>
          <one:Data>iVBORw0KGgo=</one:Data>
        </one:Image>
        <one:MediaIndex timeIndex="12.5">
          <one:MediaReference mediaID="{M1}"/>
        </one:MediaIndex>
      </one:OE>
    </one:OEChildren>
  </one:Outline>
  <one:InsertedFile pathCache="C:\cache\a.pdf" pathSource="C:\a.pdf" preferredName="a.pdf" objectID="{F1}"/>
  <one:Image format="jpg" objectID="{I2}">
    <one:Data>/9j/4AAQ</one:Data>
  </one:Image>
  <one:MediaPlaylist>
    <one:MediaReference mediaID="{M1}"/>
  </one:MediaPlaylist>
</one:Page>`

// titleOnlyXML is what a freshly created page looks like.
const titleOnlyXML = `<?xml version="1.0"?>
<one:Page xmlns:one="http://schemas.microsoft.com/office/onenote/2010/onenote" ID="%v" name="" dateTime="%v" pageLevel="1">
  <one:Title lang="en-US">
    <one:OE objectID="{NT}">
      <one:T><![CDATA[]]></one:T>
    </one:OE>
  </one:Title>
</one:Page>`

// fakeCollaborator stores page contents in memory.
type fakeCollaborator struct {
	ns        string
	hierarchy map[string]string
	pages     map[string]string
	created   []string
	updates   []string
	onCreate  func(sectionID string)

	// onUpdate runs before an update is stored; an error rejects it.
	onUpdate func(xml []byte) error
}

func newFake() *fakeCollaborator {
	return &fakeCollaborator{
		ns:        testNS,
		hierarchy: map[string]string{"": hierarchyXML},
		pages:     map[string]string{"{P1}": pageXML},
		created:   make([]string, 0),
		updates:   make([]string, 0),
	}
}

func (f *fakeCollaborator) Namespace() string {
	return f.ns
}

func (f *fakeCollaborator) GetHierarchy(id string, scope HierarchyScope) ([]byte, error) {
	h, ok := f.hierarchy[id]
	if !ok {
		return nil, NewNotFound("no hierarchy for %q", id)
	}
	return []byte(h), nil
}

func (f *fakeCollaborator) GetPageContent(id string, info PageInfo) ([]byte, error) {
	p, ok := f.pages[id]
	if !ok {
		return nil, NewNotFound("no page %q", id)
	}
	return []byte(p), nil
}

func (f *fakeCollaborator) CreateNewPage(sectionID string) error {
	f.created = append(f.created, sectionID)
	if f.onCreate != nil {
		f.onCreate(sectionID)
	}
	return nil
}

func (f *fakeCollaborator) UpdatePageContent(xml []byte) error {
	if f.onUpdate != nil {
		err := f.onUpdate(xml)
		if err != nil {
			return err
		}
	}
	root, err := Parse(xml)
	if err != nil {
		return err
	}
	id := attr(root, "ID")
	if _, ok := f.pages[id]; !ok {
		return NewNotFound("no page %q", id)
	}
	f.updates = append(f.updates, string(xml))
	f.pages[id] = string(xml)
	return nil
}

// sectionXML renders a section with the given pages as (id, dateTime) pairs.
func sectionXML(id string, pages ...[2]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<one:Section xmlns:one=%q name="Inbox" ID=%q>`, testNS, id)
	for _, p := range pages {
		fmt.Fprintf(&b, `<one:Page ID=%q name="" dateTime=%q/>`, p[0], p[1])
	}
	b.WriteString(`</one:Section>`)
	return b.String()
}

func openEditor(t *testing.T, f *fakeCollaborator, pageID string) *Editor {
	t.Helper()
	e := NewEditor(f)
	require.NoError(t, e.OpenID(pageID))
	return e
}
