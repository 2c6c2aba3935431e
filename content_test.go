package onetool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTestPage(t *testing.T, xml string) *PageContent {
	root, err := Parse([]byte(xml))
	require.NoError(t, err)
	return DecodePageContent(root, testNS)
}

func TestDecodePageContent(t *testing.T) {
	pc := decodeTestPage(t, pageXML)

	assert.Equal(t, "{P1}", pc.Identity())
	assert.Equal(t, "en-US", pc.Lang)
	assert.Equal(t, "1", pc.PageLevel)

	// QuickStyleDef and PageSettings are ignored
	require.Equal(t, 2, pc.Len())
	title := pc.Title()
	require.NotNil(t, title)
	assert.Equal(t, "My Page", title.Text())
	assert.Equal(t, "font-size:20pt", title.Style)

	outlines := pc.Outlines()
	require.Len(t, outlines, 1)
	o := outlines[0]
	assert.Equal(t, "Alice", o.Author)
	assert.Equal(t, "{O1}", o.ObjectID)
	require.Equal(t, 4, o.Len())

	oes := o.OEs()
	assert.Equal(t, "one", oes[0].Text)
	assert.Equal(t, "2020-01-01T09:01:00.000Z", oes[0].CreationTime)
	require.Len(t, oes[1].Children, 1)
	assert.Equal(t, "two.a", oes[1].Children[0].Text)
	assert.Equal(t, "", oes[2].Text)

	last := oes[3]
	require.Len(t, last.Files, 1)
	img, ok := last.Files[0].(*Image)
	require.True(t, ok)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, "{CB1}", img.CallbackID)
	assert.Equal(t, "iVBORw0KGgo=", img.Data)
	require.Len(t, last.MediaIndices, 1)
	assert.Equal(t, "12.5", last.MediaIndices[0].TimeIndex)
	assert.Equal(t, "{M1}", last.MediaIndices[0].Reference.MediaID)

	require.Len(t, pc.Files, 3)
	var file *InsertedFile
	var playlist *MediaPlaylist
	for _, f := range pc.Files {
		switch v := f.(type) {
		case *InsertedFile:
			file = v
		case *MediaPlaylist:
			playlist = v
		}
	}
	require.NotNil(t, file)
	assert.Equal(t, "a.pdf", file.String())
	require.NotNil(t, playlist)
	assert.Equal(t, playlist, pc.Playlist())
	require.Len(t, playlist.References, 1)
}

func TestDecodeMediaFile(t *testing.T) {
	xml := `<one:Page xmlns:one="` + testNS + `" ID="{P}">
		<one:MediaFile preferredName="memo.wma" objectID="{MF}">
			<one:MediaReference mediaID="{M7}"/>
		</one:MediaFile>
		<one:Ink recognizedText="hello" x="1" y="2">
			<one:Data>AAAA</one:Data>
		</one:Ink>
	</one:Page>`
	pc := decodeTestPage(t, xml)

	require.Len(t, pc.Files, 2)
	mf, ok := pc.Files[0].(*MediaFile)
	require.True(t, ok)
	assert.Equal(t, "memo.wma", mf.PreferredName)
	assert.Equal(t, "{MF}", mf.ObjectID)
	require.NotNil(t, mf.MediaReference)
	assert.Equal(t, "{M7}", mf.MediaReference.MediaID)

	ink, ok := pc.Files[1].(*Ink)
	require.True(t, ok)
	assert.Equal(t, "hello", ink.String())
	assert.Equal(t, "AAAA", ink.Data)
	assert.Equal(t, "", ink.CallbackID)
}

func TestDecodeTitleWithGroupedOEs(t *testing.T) {
	xml := `<one:Page xmlns:one="` + testNS + `" ID="{P}">
		<one:Title><one:OEChildren><one:OE><one:T>grouped</one:T></one:OE></one:OEChildren></one:Title>
	</one:Page>`
	pc := decodeTestPage(t, xml)
	assert.Equal(t, "grouped", pc.Title().Text())
}

func TestDecodeFirstTextOnly(t *testing.T) {
	xml := `<one:Page xmlns:one="` + testNS + `" ID="{P}">
		<one:Outline><one:OEChildren><one:OE>
			<one:T>first</one:T><one:T>second</one:T>
		</one:OE></one:OEChildren></one:Outline>
	</one:Page>`
	pc := decodeTestPage(t, xml)
	assert.Equal(t, "first", pc.Outlines()[0].OEs()[0].Text)
}

func TestParseError(t *testing.T) {
	_, err := Parse([]byte(`<one:Page ID="{P}"><one:Title</one:Page>`))
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	_, err = Parse([]byte(""))
	assert.True(t, IsParseError(err))
}

func TestFlatten(t *testing.T) {
	pc := decodeTestPage(t, pageXML)
	nodes := Flatten(pc)

	assert.Equal(t, []string{"My Page", "one", "two", "two.a", "", "five"}, Texts(nodes))
	assert.Equal(t, "{T1}", nodes[0].ObjectID())
	assert.Equal(t, 1, nodes[3].Depth())

	title, lines := Project(pc)
	require.NotNil(t, title)
	assert.Equal(t, "My Page", title.Text())
	assert.Len(t, lines, 5)
}

func TestFlattenEmpty(t *testing.T) {
	pc := decodeTestPage(t, `<one:Page xmlns:one="`+testNS+`" ID="{P}"/>`)
	assert.Empty(t, Flatten(pc))

	title, lines := Project(pc)
	assert.Nil(t, title)
	assert.Empty(t, lines)

	assert.Empty(t, Flatten(nil))
}

func TestRoundTrip(t *testing.T) {
	doc, err := ParseDocument([]byte(pageXML))
	require.NoError(t, err)
	before := Texts(Flatten(DecodePageContent(doc.Root(), testNS)))

	data, err := Serialize(doc, testNS)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0"?>`+"\n<one:Page"))
	assert.Equal(t, 1, strings.Count(string(data), "<?xml"))
	assert.Contains(t, string(data), "<![CDATA[My Page]]>")

	root, err := Parse(data)
	require.NoError(t, err)
	after := Texts(Flatten(DecodePageContent(root, testNS)))
	assert.Equal(t, before, after)
}

func TestSerializeCanonicalPrefix(t *testing.T) {
	xml := `<ns0:Page xmlns:ns0="` + testNS + `" xmlns:one="one" ID="{P}">
		<ns0:Title><ns0:OE><ns0:T>title</ns0:T></ns0:OE></ns0:Title>
	</ns0:Page>`
	doc, err := ParseDocument([]byte(xml))
	require.NoError(t, err)

	data, err := Serialize(doc, testNS)
	require.NoError(t, err)
	s := string(data)
	assert.NotContains(t, s, "ns0")
	assert.NotContains(t, s, `xmlns:one="one"`)
	assert.Contains(t, s, `<one:Page xmlns:one="`+testNS+`"`)
	assert.Contains(t, s, "<one:T>title</one:T>")

	root, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "title", DecodePageContent(root, testNS).Title().Text())
}

func TestSerializeDefaultNamespace(t *testing.T) {
	xml := `<Page xmlns="` + testNS + `" ID="{P}"><Title><OE><T>t</T></OE></Title></Page>`
	doc, err := ParseDocument([]byte(xml))
	require.NoError(t, err)

	data, err := Serialize(doc, testNS)
	require.NoError(t, err)

	root, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Prefix, root.Space)
	assert.Equal(t, "t", DecodePageContent(root, testNS).Title().Text())
}
