package pagexml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/tsawler/scanprep/model"
)

// outlineOf extracts the polygon outline of a region or cell element.
//
// Two encodings exist in the wild: a Coords child with a "points" attribute
// ("x0,y0 x1,y1 ..."), or a Coords child containing Point elements with
// x/y attributes. Absence of both yields an empty outline.
func outlineOf(el *etree.Element) model.Ring {
	coords := childElement(el, "Coords")
	if coords == nil {
		return nil
	}

	if points := coords.SelectAttrValue("points", ""); points != "" {
		return parsePoints(points)
	}

	var ring model.Ring
	for _, pt := range coords.ChildElements() {
		if pt.Tag != "Point" {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(pt.SelectAttrValue("x", "")), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(pt.SelectAttrValue("y", "")), 64)
		if errX != nil || errY != nil {
			continue
		}
		ring = append(ring, model.Point{X: x, Y: y})
	}
	return ring
}

// parsePoints parses a PAGE points attribute: whitespace-separated pairs of
// comma-separated coordinates. Malformed pairs are dropped.
func parsePoints(s string) model.Ring {
	fields := strings.Fields(s)
	ring := make(model.Ring, 0, len(fields))
	for _, field := range fields {
		xy := strings.Split(field, ",")
		if len(xy) != 2 {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if errX != nil || errY != nil {
			continue
		}
		ring = append(ring, model.Point{X: x, Y: y})
	}
	if len(ring) == 0 {
		return nil
	}
	return ring
}

// childElement returns the first direct child with the given local tag.
func childElement(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}
