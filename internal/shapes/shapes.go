// Package shapes loads the puzzle shape library. Shapes are GeoJSON
// feature collections drawn in canvas space (y grows downwards).
package shapes

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"math/rand/v2"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"dailyshapes/internal/geom"
)

//go:embed data/*.geojson
var dataFS embed.FS

// ErrEmpty is returned for a document without any polygon.
var ErrEmpty = errors.New("no polygons in shape")

// Shape is one named puzzle.
type Shape struct {
	Name     string
	Polygons []geom.Polygon
}

// Parse reads a GeoJSON FeatureCollection, Feature or bare geometry.
// Polygon and MultiPolygon geometries become polygons with holes, geometry
// collections are walked, points and lines are skipped.
func Parse(data []byte) ([]geom.Polygon, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	var geoms []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		geoms = append(geoms, g.Geometry())
	}

	var out []geom.Polygon
	for _, g := range geoms {
		out = appendPolygons(out, g)
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func appendPolygons(out []geom.Polygon, g orb.Geometry) []geom.Polygon {
	switch g := g.(type) {
	case orb.Polygon:
		if p, ok := toPolygon(g); ok {
			out = append(out, p)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			if p, ok := toPolygon(poly); ok {
				out = append(out, p)
			}
		}
	case orb.Collection:
		for _, c := range g {
			out = appendPolygons(out, c)
		}
	}
	return out
}

func toPolygon(rings orb.Polygon) (geom.Polygon, bool) {
	if len(rings) == 0 {
		return geom.Polygon{}, false
	}
	outer := toRing(rings[0])
	if len(outer) < 3 {
		return geom.Polygon{}, false
	}
	p := geom.Polygon{OuterRing: outer}
	for _, r := range rings[1:] {
		if hole := toRing(r); len(hole) >= 3 {
			p.Holes = append(p.Holes, hole)
		}
	}
	return p, true
}

// toRing converts positions to points and drops the closing duplicate.
func toRing(r orb.Ring) []geom.Point {
	if n := len(r); n > 1 && r[0] == r[n-1] {
		r = r[:n-1]
	}
	ring := make([]geom.Point, len(r))
	for i, c := range r {
		ring[i] = geom.Pt(c.X(), c.Y())
	}
	return ring
}

// Library is a fixed set of shapes, sorted by name.
type Library struct {
	shapes []Shape
}

// Load reads every *.geojson file in fsys.
func Load(fsys fs.FS) (*Library, error) {
	names, err := fs.Glob(fsys, "*.geojson")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	lib := &Library{}
	for _, name := range names {
		b, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		polys, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		lib.shapes = append(lib.shapes, Shape{
			Name:     strings.TrimSuffix(path.Base(name), ".geojson"),
			Polygons: polys,
		})
	}
	if len(lib.shapes) == 0 {
		return nil, errors.New("shape library is empty")
	}
	return lib, nil
}

// Default loads the embedded library.
func Default() (*Library, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return Load(sub)
}

// Len is the number of shapes.
func (l *Library) Len() int { return len(l.shapes) }

// Names lists the shape names in order.
func (l *Library) Names() []string {
	out := make([]string, len(l.shapes))
	for i, s := range l.shapes {
		out[i] = s.Name
	}
	return out
}

// Get looks a shape up by name.
func (l *Library) Get(name string) (Shape, bool) {
	for _, s := range l.shapes {
		if s.Name == name {
			return clone(s), true
		}
	}
	return Shape{}, false
}

// ForDate picks n distinct shapes for a calendar day. The same date always
// gives the same shapes in the same order. n is capped at Len.
func (l *Library) ForDate(date time.Time, n int) []Shape {
	h := fnv.New64a()
	_, _ = h.Write([]byte(date.Format(time.DateOnly)))
	r := rand.New(rand.NewPCG(h.Sum64(), 0x5eed))
	return l.pick(r, n)
}

// Practice picks one random shape.
func (l *Library) Practice(r *rand.Rand) Shape {
	if r == nil {
		return clone(l.shapes[rand.IntN(len(l.shapes))])
	}
	return clone(l.shapes[r.IntN(len(l.shapes))])
}

func (l *Library) pick(r *rand.Rand, n int) []Shape {
	n = min(n, len(l.shapes))
	idx := r.Perm(len(l.shapes))[:n]
	out := make([]Shape, n)
	for i, j := range idx {
		out[i] = clone(l.shapes[j])
	}
	return out
}

func clone(s Shape) Shape {
	return Shape{Name: s.Name, Polygons: geom.ClonePolygons(s.Polygons)}
}
