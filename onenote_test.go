package onetool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOneNote(t *testing.T) {
	f := newFake()
	o, err := NewOneNote(f)
	require.NoError(t, err)
	assert.Equal(t, Namespace(testNS), o.Namespace())
	require.Len(t, o.Notebooks(), 2)

	s, err := o.Section("{S1}")
	require.NoError(t, err)
	assert.Equal(t, "Inbox", s.Name)

	s, err = o.Section("2019")
	require.NoError(t, err)
	assert.Equal(t, "{S2}", s.ID)

	_, err = o.Section("Archive")
	assert.True(t, IsNotFound(err), "section groups are not sections")

	p, err := o.Page("{P1}")
	require.NoError(t, err)
	assert.Equal(t, "First", p.Name)

	pc, err := o.PageContent("{P1}", PageInfoBasic)
	require.NoError(t, err)
	assert.Equal(t, "My Page", pc.Title().Text())

	_, err = o.PageContent("{P2}", PageInfoBasic)
	assert.True(t, IsNotFound(err))
}

func TestOneNoteReload(t *testing.T) {
	f := newFake()
	o, err := NewOneNote(f)
	require.NoError(t, err)

	f.hierarchy[""] = `<one:Notebooks xmlns:one="` + testNS + `"><one:Notebook name="Only" ID="{N}"/></one:Notebooks>`
	require.NoError(t, o.Reload())
	require.Len(t, o.Notebooks(), 1)
	assert.Equal(t, "Only", o.Notebooks()[0].Name)

	f.hierarchy[""] = "<broken"
	err = o.Reload()
	assert.True(t, IsParseError(err))
}

func TestVersion(t *testing.T) {
	v, err := ParseVersion("2013")
	require.NoError(t, err)
	assert.Equal(t, Version2013, v)

	ns, err := v.Namespace()
	require.NoError(t, err)
	assert.Equal(t, Namespace("http://schemas.microsoft.com/office/onenote/2013/onenote"), ns)

	v, err = ParseVersion(" 14 ")
	require.NoError(t, err)
	assert.Equal(t, Version2010, v)

	_, err = ParseVersion("2016")
	assert.Error(t, err)

	_, err = Version(99).Namespace()
	assert.Error(t, err)
}
