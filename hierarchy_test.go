package onetool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTestHierarchy(t *testing.T) []*Notebook {
	root, err := Parse([]byte(hierarchyXML))
	require.NoError(t, err)
	return DecodeHierarchy(root, testNS)
}

func TestDecodeHierarchy(t *testing.T) {
	notebooks := decodeTestHierarchy(t)
	require.Len(t, notebooks, 2)

	work := notebooks[0]
	assert.Equal(t, "Work", work.Name)
	assert.Equal(t, "Work NB", work.Nickname)
	assert.Equal(t, "{NB1}", work.ID)
	assert.Equal(t, "#ADE792", work.Color)
	assert.True(t, work.IsCurrentlyViewed)

	// Section, SectionGroup "Archive"; the recycle bin is diverted
	require.Equal(t, 2, work.Len())
	inbox, ok := work.Children[0].(*Section)
	require.True(t, ok)
	assert.Equal(t, "{S1}", inbox.Identity())
	archive, ok := work.Children[1].(*SectionGroup)
	require.True(t, ok)
	assert.Equal(t, "Archive", archive.Name)

	require.NotNil(t, work.RecycleBin)
	assert.Equal(t, "{RB}", work.RecycleBin.ID)
	assert.True(t, work.RecycleBin.IsRecycleBin)

	// nested groups keep their recycle bin as a child
	require.Equal(t, 2, archive.Len())
	nested, ok := archive.Children[1].(*SectionGroup)
	require.True(t, ok)
	assert.True(t, nested.IsRecycleBin)

	require.Len(t, inbox.Pages, 2)
	first := inbox.Pages[0]
	assert.Equal(t, "First", first.Name)
	assert.Equal(t, "1", first.PageLevel)
	require.Len(t, first.Meta, 1)
	assert.Equal(t, Meta{Name: "tag", Content: "todo"}, first.Meta[0])
	assert.Equal(t, "{P2}", inbox.Last().ID)

	personal := notebooks[1]
	assert.Equal(t, "Personal", personal.Name)
	assert.Empty(t, personal.Children)
	assert.Nil(t, personal.RecycleBin)
}

func TestRecycleBinDiversion(t *testing.T) {
	doc := `<one:Notebook xmlns:one="` + testNS + `" name="NB" ID="{N}">
		<one:SectionGroup name="A" ID="{A}"/>
		<one:SectionGroup name="Bin" ID="{B}" isRecycleBin="true"/>
		<one:SectionGroup name="C" ID="{C}"/>
	</one:Notebook>`
	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	n := DecodeNotebook(root, testNS)
	require.Len(t, n.Children, 2)
	for _, c := range n.Children {
		assert.NotEqual(t, "{B}", c.Identity())
	}
	require.NotNil(t, n.RecycleBin)
	assert.Equal(t, "{B}", n.RecycleBin.ID)
}

func TestMissingAttributes(t *testing.T) {
	doc := `<one:Section xmlns:one="` + testNS + `" ID="{S}"><one:Page/></one:Section>`
	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	s := DecodeSection(root, testNS)
	assert.False(t, s.ReadOnly)
	assert.False(t, s.IsCurrentlyViewed)
	assert.Equal(t, "", s.Color)
	assert.Equal(t, "", s.Name)
	assert.Equal(t, "NO_NAME", s.DisplayName())
	require.Len(t, s.Pages, 1)
	assert.Equal(t, "", s.Pages[0].ID)
	assert.Empty(t, s.Pages[0].Meta)
}

func TestSectionAcceptsAnyChildAsPage(t *testing.T) {
	doc := `<one:Section xmlns:one="` + testNS + `" ID="{S}">
		<one:Page ID="{P}"/>
		<other ID="{X}"/>
	</one:Section>`
	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	s := DecodeSection(root, testNS)
	require.Len(t, s.Pages, 2)
	assert.Equal(t, "{X}", s.Pages[1].ID)
}

func TestForeignNamespaceIgnored(t *testing.T) {
	doc := `<one:Notebooks xmlns:one="` + testNS + `" xmlns:x="urn:other">
		<x:Notebook name="foreign"/>
		<one:Notebook name="mine"/>
	</one:Notebooks>`
	root, err := Parse([]byte(doc))
	require.NoError(t, err)

	notebooks := DecodeHierarchy(root, testNS)
	require.Len(t, notebooks, 1)
	assert.Equal(t, "mine", notebooks[0].Name)
}

func TestPageCreated(t *testing.T) {
	p := &Page{DateTime: "2020-01-01T09:00:00.123Z"}
	created, err := p.Created()
	require.NoError(t, err)
	assert.Equal(t, 2020, created.Year())
	assert.Equal(t, 123000000, created.Nanosecond())

	p.DateTime = ""
	_, err = p.Created()
	assert.Error(t, err)
}
