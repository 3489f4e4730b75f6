package shapes

import (
	"math/rand/v2"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyshapes/internal/geom"
)

const frame = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [190, 190]}},
    {"type": "Feature", "properties": {}, "geometry": {
      "type": "Polygon",
      "coordinates": [
        [[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]],
        [[2, 2], [2, 8], [8, 8], [8, 2], [2, 2]]
      ]
    }}
  ]
}`

func TestParse_PolygonWithHole(t *testing.T) {
	polys, err := Parse([]byte(frame))
	require.NoError(t, err)
	require.Len(t, polys, 1)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10)}, polys[0].OuterRing)
	require.Len(t, polys[0].Holes, 1)
	assert.Len(t, polys[0].Holes[0], 4)
}

func TestParse_MultiPolygon(t *testing.T) {
	doc := `{"type": "MultiPolygon", "coordinates": [
		[[[0, 0], [1, 0], [1, 1], [0, 0]]],
		[[[5, 5], [6, 5], [6, 6], [5, 5]]]
	]}`
	polys, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, polys, 2)
	assert.Equal(t, geom.Pt(5, 5), polys[1].OuterRing[0])
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`{"type": "Point", "coordinates": [1, 2]}`))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"type": "Polygon", "coordinates": "nope"}`))
	assert.Error(t, err)
}

func TestDefaultLibrary(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, lib.Len(), 3)

	for _, name := range lib.Names() {
		s, ok := lib.Get(name)
		require.True(t, ok)
		b, ok := geom.CalculateBounds(s.Polygons)
		require.True(t, ok, name)
		assert.LessOrEqual(t, b.Width(), 340.0, name)
		assert.LessOrEqual(t, b.Height(), 340.0, name)
	}

	frame, ok := lib.Get("frame")
	require.True(t, ok)
	assert.Len(t, frame.Polygons[0].Holes, 1)
}

func TestForDate_Deterministic(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)

	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	a := lib.ForDate(day, 3)
	b := lib.ForDate(later, 3)
	require.Len(t, a, 3)
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
	}
	assert.NotEqual(t, a[0].Name, a[1].Name)
	assert.NotEqual(t, a[1].Name, a[2].Name)

	assert.Len(t, lib.ForDate(day, 1000), lib.Len())
}

func TestLibrary_ReturnsCopies(t *testing.T) {
	fsys := fstest.MapFS{"tri.geojson": {Data: []byte(`{"type": "Polygon", "coordinates": [[[0,0],[4,0],[0,4]]]}`)}}
	lib, err := Load(fsys)
	require.NoError(t, err)

	s := lib.Practice(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, "tri", s.Name)
	s.Polygons[0].OuterRing[0] = geom.Pt(99, 99)

	again, _ := lib.Get("tri")
	assert.Equal(t, geom.Pt(0, 0), again.Polygons[0].OuterRing[0])
}

func TestLoad_Empty(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.Error(t, err)
}

func TestParse_FeatureAndGeometryCollection(t *testing.T) {
	feature := `{"type": "Feature", "properties": {"name": "tri"},
		"geometry": {"type": "Polygon", "coordinates": [[[0, 0], [4, 0], [0, 4], [0, 0]]]}}`
	polys, err := Parse([]byte(feature))
	require.NoError(t, err)
	require.Len(t, polys, 1)
	assert.Len(t, polys[0].OuterRing, 3)

	collection := `{"type": "GeometryCollection", "geometries": [
		{"type": "Point", "coordinates": [1, 2]},
		{"type": "Polygon", "coordinates": [[[0, 0], [2, 0], [2, 2], [0, 2]]]}
	]}`
	polys, err = Parse([]byte(collection))
	require.NoError(t, err)
	require.Len(t, polys, 1)
	assert.Equal(t, geom.Pt(2, 2), polys[0].OuterRing[2])
}

func TestParse_FeatureCollectionSkipsNullGeometry(t *testing.T) {
	doc := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": null, "properties": {}},
		{"type": "Feature", "geometry": {"type": "MultiPolygon", "coordinates": [[[[0, 0], [1, 0], [1, 1]]]]}, "properties": {}}
	]}`
	polys, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, polys, 1)
}
