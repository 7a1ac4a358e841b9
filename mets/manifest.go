// Package mets resolves page labels to image URLs in METS manifests.
//
// Each digitized archive volume has a METS manifest listing its scans. A
// scan appears twice: as a structural div carrying the original filename in
// its LABEL attribute, and as a file entry whose FLocat points at the
// downloadable image. The two are linked by ID: the file entry's ID is the
// div's ID with a "DEF" suffix (the default derivative).
package mets

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// labelExtensions are the filename extensions tried when resolving a page
// label, in order. Scans were archived as TIFF masters with JPEG
// derivatives; manifests label them with either extension.
var labelExtensions = []string{".tif", ".jpg"}

// Manifest provides lookups into a parsed METS manifest.
type Manifest struct {
	divIDs   map[string]string // div LABEL -> div ID
	fileURLs map[string]string // file ID -> FLocat href
}

// Open opens and parses a METS manifest file.
func Open(filename string) (*Manifest, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if err := doc.ReadFromFile(filename); err != nil {
		return nil, fmt.Errorf("parsing METS manifest %s: %w", filename, err)
	}
	return fromTree(doc)
}

// Parse parses a METS manifest from a reader.
func Parse(r io.Reader) (*Manifest, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing METS manifest: %w", err)
	}
	return fromTree(doc)
}

func fromTree(doc *etree.Document) (*Manifest, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("METS manifest has no root element")
	}

	m := &Manifest{
		divIDs:   make(map[string]string),
		fileURLs: make(map[string]string),
	}

	walk(root, func(el *etree.Element) {
		switch el.Tag {
		case "div":
			label := el.SelectAttrValue("LABEL", "")
			id := el.SelectAttrValue("ID", "")
			if label != "" && id != "" {
				m.divIDs[label] = id
			}
		case "file":
			id := el.SelectAttrValue("ID", "")
			if id == "" {
				return
			}
			if href := flocatHref(el); href != "" {
				m.fileURLs[id] = href
			}
		}
	})

	return m, nil
}

// ImageURL resolves a page label (the filename stem, without extension) to
// the image URL. It tries the known extensions in order and reports false
// when no div matches any of them or the matching file entry is missing.
func (m *Manifest) ImageURL(label string) (string, bool) {
	for _, ext := range labelExtensions {
		divID, ok := m.divIDs[label+ext]
		if !ok {
			continue
		}
		// The default derivative's file ID is the div ID plus "DEF".
		if url, ok := m.fileURLs[divID+"DEF"]; ok {
			return url, true
		}
	}
	return "", false
}

// Labels returns the number of labeled divs in the manifest.
func (m *Manifest) Labels() int {
	return len(m.divIDs)
}

// flocatHref returns the href (any namespace prefix) of the element's first
// FLocat child, or "".
func flocatHref(fileEl *etree.Element) string {
	for _, child := range fileEl.ChildElements() {
		if child.Tag != "FLocat" {
			continue
		}
		for _, attr := range child.Attr {
			if attr.Key == "href" {
				return attr.Value
			}
		}
	}
	return ""
}

// walk visits every element in the tree, depth-first.
func walk(el *etree.Element, visit func(*etree.Element)) {
	visit(el)
	for _, child := range el.ChildElements() {
		walk(child, visit)
	}
}

// TrimLabelExt strips a known label extension from a filename, if present.
func TrimLabelExt(name string) string {
	for _, ext := range labelExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
