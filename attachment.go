package onetool

import (
	"github.com/beevik/etree"
)

// Attachment is a non-text object on a page.
// Payloads are kept as opaque strings.
//
// One of *Ink, *Image, *InsertedFile, *MediaFile or *MediaPlaylist.
type Attachment interface {
	attachment()
}

type Ink struct {
	RecognizedText string
	X              string
	Y              string
	InkOriginX     string
	InkOriginY     string
	Width          string
	Height         string
	Data           string
	CallbackID     string
}

func (i *Ink) attachment() {}

func (i *Ink) String() string {
	if i.RecognizedText == "" {
		return "Unrecognized Ink"
	}
	return i.RecognizedText
}

type Image struct {
	Format             string
	OriginalPageNumber string
	LastModifiedTime   string
	ObjectID           string
	CallbackID         string
	Data               string
}

func (i *Image) attachment() {}

func (i *Image) String() string {
	return i.Format + " Image"
}

type InsertedFile struct {
	PathCache        string
	PathSource       string
	PreferredName    string
	LastModifiedTime string
	LastModifiedBy   string
	ObjectID         string
}

func (f *InsertedFile) attachment() {}

func (f *InsertedFile) String() string {
	if f.PreferredName == "" {
		return "Unnamed File"
	}
	return f.PreferredName
}

// MediaFile is an inserted audio or video file.
type MediaFile struct {
	InsertedFile
	MediaReference *MediaReference
}

func (m *MediaFile) attachment() {}

func (m *MediaFile) String() string {
	if m.PreferredName == "" {
		return "Unnamed Media File"
	}
	return m.PreferredName
}

type MediaReference struct {
	MediaID string
}

// MediaPlaylist lists the media recorded on a page.
type MediaPlaylist struct {
	References []*MediaReference
}

func (m *MediaPlaylist) attachment() {}

// MediaIndex links an OE to a position in a recording.
type MediaIndex struct {
	TimeIndex string
	Reference *MediaReference
}

func decodeInk(el *etree.Element, ns Namespace) *Ink {
	i := &Ink{
		RecognizedText: attr(el, "recognizedText"),
		X:              attr(el, "x"),
		Y:              attr(el, "y"),
		InkOriginX:     attr(el, "inkOriginX"),
		InkOriginY:     attr(el, "inkOriginY"),
		Width:          attr(el, "width"),
		Height:         attr(el, "height"),
	}
	i.CallbackID, i.Data = decodeBlob(el, ns)
	return i
}

func decodeImage(el *etree.Element, ns Namespace) *Image {
	i := &Image{
		Format:             attr(el, "format"),
		OriginalPageNumber: attr(el, "originalPageNumber"),
		LastModifiedTime:   attr(el, "lastModifiedTime"),
		ObjectID:           attr(el, "objectID"),
	}
	i.CallbackID, i.Data = decodeBlob(el, ns)
	return i
}

// decodeBlob reads the CallbackID and Data children of ink and images.
func decodeBlob(el *etree.Element, ns Namespace) (callbackID, data string) {
	for _, c := range el.ChildElements() {
		switch {
		case ns.Is(c, "CallbackID"):
			callbackID = attr(c, "callbackID")
		case ns.Is(c, "Data"):
			data = text(c)
		}
	}
	return callbackID, data
}

func decodeInsertedFile(el *etree.Element) *InsertedFile {
	return &InsertedFile{
		PathCache:        attr(el, "pathCache"),
		PathSource:       attr(el, "pathSource"),
		PreferredName:    attr(el, "preferredName"),
		LastModifiedTime: attr(el, "lastModifiedTime"),
		LastModifiedBy:   attr(el, "lastModifiedBy"),
		ObjectID:         attr(el, "objectID"),
	}
}

func decodeMediaFile(el *etree.Element, ns Namespace) *MediaFile {
	return &MediaFile{
		InsertedFile:   *decodeInsertedFile(el),
		MediaReference: decodeMediaReference(ns.first(el, "MediaReference")),
	}
}

func decodeMediaPlaylist(el *etree.Element, ns Namespace) *MediaPlaylist {
	m := &MediaPlaylist{References: make([]*MediaReference, 0)}
	for _, c := range el.ChildElements() {
		if ns.Is(c, "MediaReference") {
			m.References = append(m.References, decodeMediaReference(c))
		}
	}
	return m
}

func decodeMediaIndex(el *etree.Element, ns Namespace) *MediaIndex {
	return &MediaIndex{
		TimeIndex: attr(el, "timeIndex"),
		Reference: decodeMediaReference(ns.first(el, "MediaReference")),
	}
}

func decodeMediaReference(el *etree.Element) *MediaReference {
	if el == nil {
		return nil
	}
	return &MediaReference{MediaID: attr(el, "mediaID")}
}
