package tables

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/twpayne/go-geos"

	"github.com/tsawler/scanprep/model"
)

// Outline is the derived boundary of one row or column group.
type Outline struct {
	Index int
	Ring  model.Ring
}

// Options controls outline computation.
type Options struct {
	// SimplifyTolerance, when positive, simplifies each outline with
	// Douglas-Peucker at that tolerance (in pixels). Zero disables
	// simplification.
	SimplifyTolerance float64
}

// GroupOutlines computes the union boundary of each group's cell polygons.
// Groups whose cells have no usable polygons are omitted from the result.
// Non-fatal problems are returned as warnings.
func GroupOutlines(groups []Group, opts Options) ([]Outline, []string) {
	var outlines []Outline
	var warnings []string

	for _, group := range groups {
		ring, warns := unionBoundary(group)
		warnings = append(warnings, warns...)
		if ring == nil {
			continue
		}
		if opts.SimplifyTolerance > 0 {
			ring = simplifyRing(ring, opts.SimplifyTolerance)
		}
		outlines = append(outlines, Outline{Index: group.Index, Ring: ring})
	}

	return outlines, warnings
}

// unionBoundary unions the polygons of one group and returns the exterior
// ring of the result. A nil ring means the group had no usable polygons.
func unionBoundary(group Group) (model.Ring, []string) {
	var warnings []string
	var union *geos.Geom

	for _, cell := range group.Cells {
		if cell.Outline.Len() < 3 {
			continue
		}

		poly, err := cellPolygon(cell.Outline)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("group %d: cell %q: %v", group.Index, cell.ID, err))
			continue
		}
		if !poly.IsValid() {
			repaired := poly.MakeValidWithParams(geos.MakeValidLinework, geos.MakeValidDiscardCollapsed)
			poly.Destroy()
			if repaired == nil {
				warnings = append(warnings, fmt.Sprintf("group %d: cell %q: polygon could not be repaired", group.Index, cell.ID))
				continue
			}
			poly = repaired
		}
		if poly.IsEmpty() {
			poly.Destroy()
			continue
		}

		if union == nil {
			union = poly
			continue
		}
		merged := union.Union(poly)
		union.Destroy()
		poly.Destroy()
		union = merged
	}

	if union == nil {
		return nil, warnings
	}
	defer union.Destroy()

	ring, err := exteriorRing(union.ToGeoJSON(-1))
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("group %d: %v", group.Index, err))
		return nil, warnings
	}
	return ring, warnings
}

// cellPolygon builds a GEOS polygon from a cell outline. The ring is closed
// first; GeoJSON (and GEOS) require the first coordinate repeated.
func cellPolygon(outline model.Ring) (*geos.Geom, error) {
	closed := outline.Closed()
	coords := make([][]float64, 0, len(closed))
	for _, p := range closed {
		coords = append(coords, []float64{p.X, p.Y})
	}

	js, err := json.Marshal(geoJSONGeometry{
		Type:        "Polygon",
		Coordinates: mustRaw([][][]float64{coords}),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding polygon: %w", err)
	}

	geom, err := geos.NewGeomFromGeoJSON(string(js))
	if err != nil {
		return nil, fmt.Errorf("building polygon: %w", err)
	}
	return geom, nil
}

// geoJSONGeometry is the subset of GeoJSON needed to round-trip geometries
// through GEOS.
type geoJSONGeometry struct {
	Type        string            `json:"type"`
	Coordinates json.RawMessage   `json:"coordinates,omitempty"`
	Geometries  []geoJSONGeometry `json:"geometries,omitempty"`
}

func mustRaw(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}

// exteriorRing extracts the exterior ring of a union result. Polygon results
// contribute their outer ring directly; MultiPolygon and GeometryCollection
// results contribute the outer ring of their largest polygonal member.
func exteriorRing(geoJSON string) (model.Ring, error) {
	var geom geoJSONGeometry
	if err := json.Unmarshal([]byte(geoJSON), &geom); err != nil {
		return nil, fmt.Errorf("decoding union result: %w", err)
	}

	rings := collectExteriorRings(geom)
	if len(rings) == 0 {
		return nil, fmt.Errorf("union produced no polygonal geometry (%s)", geom.Type)
	}

	largest := rings[0]
	for _, ring := range rings[1:] {
		if ring.Area() > largest.Area() {
			largest = ring
		}
	}
	return largest, nil
}

func collectExteriorRings(geom geoJSONGeometry) []model.Ring {
	switch geom.Type {
	case "Polygon":
		var coords [][][]float64
		if err := json.Unmarshal(geom.Coordinates, &coords); err != nil || len(coords) == 0 {
			return nil
		}
		return []model.Ring{toRing(coords[0])}
	case "MultiPolygon":
		var coords [][][][]float64
		if err := json.Unmarshal(geom.Coordinates, &coords); err != nil {
			return nil
		}
		var rings []model.Ring
		for _, poly := range coords {
			if len(poly) > 0 {
				rings = append(rings, toRing(poly[0]))
			}
		}
		return rings
	case "GeometryCollection":
		var rings []model.Ring
		for _, member := range geom.Geometries {
			rings = append(rings, collectExteriorRings(member)...)
		}
		return rings
	default:
		return nil
	}
}

func toRing(coords [][]float64) model.Ring {
	ring := make(model.Ring, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		ring = append(ring, model.Point{X: c[0], Y: c[1]})
	}
	return ring
}

// simplifyRing applies Douglas-Peucker simplification, keeping the original
// when simplification would collapse the ring below a valid polygon.
func simplifyRing(ring model.Ring, tolerance float64) model.Ring {
	orbRing := make(orb.Ring, len(ring))
	for i, p := range ring {
		orbRing[i] = orb.Point{p.X, p.Y}
	}

	simplified, ok := simplify.DouglasPeucker(tolerance).Simplify(orbRing.Clone()).(orb.Ring)
	if !ok || len(simplified) < 4 {
		return ring
	}

	out := make(model.Ring, len(simplified))
	for i, p := range simplified {
		out[i] = model.Point{X: p[0], Y: p[1]}
	}
	return out
}
