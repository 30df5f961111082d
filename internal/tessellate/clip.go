package tessellate

import (
	"math"

	"github.com/sells-group/zonemesh/internal/model"
)

// vertexEpsilon merges consecutive vertices closer than this many degrees.
const vertexEpsilon = 1e-12

// vec is a planar point with x = lng and y = lat.
type vec struct{ x, y float64 }

func toVec(p model.LatLng) vec { return vec{x: p.Lng, y: p.Lat} }

func toVecs(ring model.Ring) []vec {
	out := make([]vec, len(ring))
	for i, p := range ring {
		out[i] = toVec(p)
	}
	return out
}

func fromVecs(poly []vec) model.Ring {
	out := make(model.Ring, 0, len(poly))
	for i, v := range poly {
		prev := poly[(i+len(poly)-1)%len(poly)]
		if len(poly) > 1 && near(v, prev) {
			continue
		}
		out = append(out, model.LatLng{Lat: v.y, Lng: v.x})
	}
	return out
}

func near(a, b vec) bool {
	return math.Abs(a.x-b.x) <= vertexEpsilon && math.Abs(a.y-b.y) <= vertexEpsilon
}

// clipCloser keeps the part of the convex polygon poly that is at least as
// close to site as to other. Winding is preserved.
func clipCloser(poly []vec, site, other vec) []vec {
	// |p-site|² <= |p-other|²  <=>  a·x + b·y <= c
	a := 2 * (other.x - site.x)
	b := 2 * (other.y - site.y)
	c := other.x*other.x + other.y*other.y - site.x*site.x - site.y*site.y
	return clipHalfPlane(poly, a, b, c)
}

// clipHalfPlane is one Sutherland-Hodgman pass keeping a·x + b·y <= c.
func clipHalfPlane(poly []vec, a, b, c float64) []vec {
	if len(poly) == 0 {
		return nil
	}
	out := make([]vec, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	dPrev := a*prev.x + b*prev.y - c
	for _, cur := range poly {
		dCur := a*cur.x + b*cur.y - c
		switch {
		case dCur <= 0:
			if dPrev > 0 {
				out = append(out, lerp(prev, cur, dPrev/(dPrev-dCur)))
			}
			out = append(out, cur)
		case dPrev <= 0:
			out = append(out, lerp(prev, cur, dPrev/(dPrev-dCur)))
		}
		prev, dPrev = cur, dCur
	}
	return out
}

func lerp(p, q vec, t float64) vec {
	return vec{x: p.x + t*(q.x-p.x), y: p.y + t*(q.y-p.y)}
}
