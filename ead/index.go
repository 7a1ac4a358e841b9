// Package ead reads EAD (Encoded Archival Description) finding aids.
//
// A finding aid describes an archive inventory. The downloader needs one
// thing from it: which METS manifest belongs to which inventory number.
// That mapping lives in the did elements, as a unitid (the inventory
// number) paired with a dao (digital archival object) link.
//
// Finding aids come namespaced, un-namespaced, and in legacy encodings, so
// elements are matched by local name and the file is decoded through a
// charset reader.
package ead

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// Index maps inventory numbers to METS manifest URLs.
type Index struct {
	manifests map[string]string
}

// Open opens and parses an EAD finding aid file.
func Open(filename string) (*Index, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if err := doc.ReadFromFile(filename); err != nil {
		return nil, fmt.Errorf("parsing finding aid %s: %w", filename, err)
	}
	return fromTree(doc)
}

// Parse parses an EAD finding aid from a reader.
func Parse(r io.Reader) (*Index, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing finding aid: %w", err)
	}
	return fromTree(doc)
}

func fromTree(doc *etree.Document) (*Index, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("finding aid has no root element")
	}

	ix := &Index{manifests: make(map[string]string)}

	walk(root, func(el *etree.Element) {
		if el.Tag != "did" {
			return
		}
		unitID := childText(el, "unitid")
		href := childHref(el, "dao")
		if unitID == "" || href == "" {
			return
		}
		ix.manifests[normalize(unitID)] = href
	})

	return ix, nil
}

// Resolve returns the METS manifest URL for an inventory number.
func (ix *Index) Resolve(inventoryNumber string) (string, bool) {
	url, ok := ix.manifests[normalize(inventoryNumber)]
	return url, ok
}

// Len returns the number of inventory numbers in the index.
func (ix *Index) Len() int {
	return len(ix.manifests)
}

// normalize prepares a unit ID for lookup. Finding aids are hand-curated;
// NFC normalization keeps composed and decomposed diacritics from producing
// distinct keys.
func normalize(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}

// walk visits every element in the tree, depth-first.
func walk(el *etree.Element, visit func(*etree.Element)) {
	visit(el)
	for _, child := range el.ChildElements() {
		walk(child, visit)
	}
}

// childText returns the text of the first direct child with the given local
// tag, or "".
func childText(el *etree.Element, tag string) string {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}

// childHref returns the href attribute (any namespace prefix) of the first
// direct child with the given local tag, or "".
func childHref(el *etree.Element, tag string) string {
	for _, child := range el.ChildElements() {
		if child.Tag != tag {
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
