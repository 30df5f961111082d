// Package tessellate turns cluster centroids into a gap-free tiling of
// convex polygons: each centroid's Voronoi cell clipped to a padded
// bounding box.
package tessellate

import (
	"slices"

	"github.com/fogleman/delaunay"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/geometry"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/partition"
)

// Default margins in degrees.
const (
	DefaultPadding           = 0.01
	DefaultFallbackHalfWidth = 0.001
)

// Options controls the clipping box and fallback cell size.
type Options struct {
	// Padding is added to every side of the input bounds before clipping.
	Padding float64
	// FallbackHalfWidth is the half-width of the square emitted for a
	// centroid that has no usable cell.
	FallbackHalfWidth float64
}

// DefaultOptions returns the standard margins.
func DefaultOptions() Options {
	return Options{
		Padding:           DefaultPadding,
		FallbackHalfWidth: DefaultFallbackHalfWidth,
	}
}

// Tessellate returns one polygon per cluster, in cluster order. bounds is
// the unpadded extent of every input sample.
func Tessellate(clusters []partition.Cluster, bounds model.BBox, opts Options) []model.Ring {
	sites := make([]model.LatLng, len(clusters))
	for i, c := range clusters {
		sites[i] = c.Centroid
	}
	return Cells(sites, geometry.Pad(bounds, opts.Padding), opts.FallbackHalfWidth)
}

// Cells returns the Voronoi cell of every site clipped to box. A single site
// receives the whole box. A site that repeats an earlier site, or whose
// clipped cell collapses, receives a square of the given half-width centred
// on it.
func Cells(sites []model.LatLng, box model.BBox, fallbackHalfWidth float64) []model.Ring {
	if len(sites) == 0 {
		return nil
	}
	if len(sites) == 1 {
		return []model.Ring{geometry.BoxRing(box)}
	}

	log := zap.L().With(zap.String("component", "tessellate"))

	// Distinct sites in first-seen order; duplicates map back to -1.
	firstIndex := make(map[model.LatLng]int, len(sites))
	unique := make([]model.LatLng, 0, len(sites))
	uniqueOf := make([]int, len(sites))
	for i, s := range sites {
		if _, seen := firstIndex[s]; seen {
			uniqueOf[i] = -1
			continue
		}
		firstIndex[s] = i
		uniqueOf[i] = len(unique)
		unique = append(unique, s)
	}

	neighbors := delaunayNeighbors(unique)
	boxRing := toVecs(geometry.BoxRing(box))

	cells := make([]model.Ring, len(sites))
	var fallbacks int
	for i, s := range sites {
		u := uniqueOf[i]
		if u < 0 {
			cells[i] = geometry.Square(s, fallbackHalfWidth)
			fallbacks++
			continue
		}

		adj := neighbors[u]
		if len(adj) == 0 && len(unique) > 1 {
			adj = allExcept(len(unique), u)
		}

		poly := boxRing
		for _, j := range adj {
			poly = clipCloser(poly, toVec(unique[u]), toVec(unique[j]))
			if len(poly) < 3 {
				break
			}
		}

		ring := fromVecs(poly)
		if len(ring) < 3 || geometry.Area(ring) == 0 {
			cells[i] = geometry.Square(s, fallbackHalfWidth)
			fallbacks++
			continue
		}
		cells[i] = ring
	}

	if fallbacks > 0 {
		log.Debug("substituted fallback cells",
			zap.Int("fallbacks", fallbacks),
			zap.Int("sites", len(sites)),
		)
	}
	return cells
}

// delaunayNeighbors returns, for every site, the sorted indices of the sites
// it shares a Delaunay edge with. When no triangulation exists (fewer than
// three sites or all collinear) every site neighbours every other site,
// which still yields the exact Voronoi cell.
func delaunayNeighbors(sites []model.LatLng) [][]int {
	n := len(sites)
	out := make([][]int, n)
	if n < 2 {
		return out
	}

	var tri *delaunay.Triangulation
	if n >= 3 {
		points := make([]delaunay.Point, n)
		for i, s := range sites {
			points[i] = delaunay.Point{X: s.Lng, Y: s.Lat}
		}
		t, err := delaunay.Triangulate(points)
		if err == nil && len(t.Triangles) > 0 {
			tri = t
		}
	}

	if tri == nil {
		for i := range out {
			out[i] = allExcept(n, i)
		}
		return out
	}

	for k := 0; k+2 < len(tri.Triangles); k += 3 {
		a, b, c := tri.Triangles[k], tri.Triangles[k+1], tri.Triangles[k+2]
		out[a] = append(out[a], b, c)
		out[b] = append(out[b], a, c)
		out[c] = append(out[c], a, b)
	}
	for i := range out {
		slices.Sort(out[i])
		out[i] = slices.Compact(out[i])
	}
	return out
}

func allExcept(n, skip int) []int {
	out := make([]int, 0, n-1)
	for j := 0; j < n; j++ {
		if j != skip {
			out = append(out, j)
		}
	}
	return out
}
