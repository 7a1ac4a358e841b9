// Package pagexml provides PAGE layout XML annotation parsing.
//
// PAGE files describe the layout of a scanned page: table regions with their
// outline polygons, and the table cells inside them. Cells carry logical
// "row" and "col" attributes that position them in the table grid.
//
// The parser is tolerant by design. Annotation corpora mix tools, schema
// versions and namespace prefixes, so elements are matched by local name and
// structural problems (cells without grid indices, empty outlines) are
// collected as warnings instead of failing the whole file.
package pagexml

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/tsawler/scanprep/model"
)

// Document provides access to a parsed PAGE XML annotation file.
type Document struct {
	annotation *model.PageAnnotation
	warnings   []string
}

// Open opens and parses a PAGE XML file. The page ID is derived from the
// filename: an optional "pc-" prefix and the ".xml" extension are stripped.
func Open(filename string) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if err := doc.ReadFromFile(filename); err != nil {
		return nil, fmt.Errorf("parsing PAGE XML %s: %w", filename, err)
	}

	return fromTree(doc, PageID(filename))
}

// Parse parses PAGE XML from a reader. The page ID must be supplied by the
// caller since there is no filename to derive it from.
func Parse(r io.Reader, pageID string) (*Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel

	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing PAGE XML: %w", err)
	}

	return fromTree(doc, pageID)
}

// PageID derives the page identifier from an annotation filename by
// stripping the directory, an optional "pc-" prefix, and the ".xml"
// extension. The result matches the image filename stem.
func PageID(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(base, "pc-")
}

// Annotation returns the parsed page annotation.
func (d *Document) Annotation() *model.PageAnnotation {
	return d.annotation
}

// Regions returns the table regions found on the page.
func (d *Document) Regions() []model.TableRegion {
	return d.annotation.Regions
}

// Warnings returns non-fatal problems encountered while parsing.
func (d *Document) Warnings() []string {
	return d.warnings
}

func fromTree(doc *etree.Document, pageID string) (*Document, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("PAGE XML has no root element")
	}

	d := &Document{annotation: model.NewPageAnnotation(pageID)}

	if page := findFirst(root, "Page"); page != nil {
		d.annotation.ImageFilename = page.SelectAttrValue("imageFilename", "")
		d.annotation.Width = intAttr(page, "imageWidth")
		d.annotation.Height = intAttr(page, "imageHeight")
	}

	for _, region := range findAll(root, "TableRegion") {
		d.annotation.AddRegion(d.parseRegion(region))
	}

	return d, nil
}

func (d *Document) parseRegion(el *etree.Element) model.TableRegion {
	region := model.TableRegion{
		ID:      el.SelectAttrValue("id", ""),
		Outline: outlineOf(el),
	}

	for _, cellEl := range findAll(el, "TableCell") {
		cell, ok := d.parseCell(cellEl)
		if !ok {
			continue
		}
		region.Cells = append(region.Cells, cell)
	}

	return region
}

func (d *Document) parseCell(el *etree.Element) (model.TableCell, bool) {
	id := el.SelectAttrValue("id", "")

	row, rowErr := strconv.Atoi(strings.TrimSpace(el.SelectAttrValue("row", "")))
	col, colErr := strconv.Atoi(strings.TrimSpace(el.SelectAttrValue("col", "")))
	if rowErr != nil || colErr != nil {
		d.warnf("table cell %q has no usable row/col attributes; skipped", id)
		return model.TableCell{}, false
	}

	return model.TableCell{
		ID:      id,
		Row:     row,
		Col:     col,
		Outline: outlineOf(el),
	}, true
}

func (d *Document) warnf(format string, args ...any) {
	d.warnings = append(d.warnings, fmt.Sprintf(format, args...))
}

// intAttr parses an integer attribute, returning 0 when absent or invalid.
func intAttr(el *etree.Element, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(el.SelectAttrValue(name, "")))
	if err != nil {
		return 0
	}
	return v
}

// findAll returns all descendants of el with the given local tag name.
// etree stores the namespace prefix separately in Space, so comparing Tag
// alone matches elements regardless of prefix.
func findAll(el *etree.Element, tag string) []*etree.Element {
	var found []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			found = append(found, child)
		}
		found = append(found, findAll(child, tag)...)
	}
	return found
}

// findFirst returns the first descendant of el with the given local tag
// name, depth-first, or nil.
func findFirst(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}
