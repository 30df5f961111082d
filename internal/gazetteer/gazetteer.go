// Package gazetteer labels locations with the name of the nearest known place.
package gazetteer

import (
	_ "embed"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/zonemesh/internal/model"
)

//go:embed medellin.yaml
var defaultYAML []byte

// Place is a named reference location.
type Place struct {
	Name       string            `yaml:"name" json:"name"`
	Lat        float64           `yaml:"lat" json:"lat"`
	Lng        float64           `yaml:"lng" json:"lng"`
	Attributes map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Position returns the place's coordinate.
func (p Place) Position() model.LatLng {
	return model.LatLng{Lat: p.Lat, Lng: p.Lng}
}

// Gazetteer is an immutable list of places searched linearly.
type Gazetteer struct {
	places []Place
}

// New builds a Gazetteer. Names are trimmed and NFC-normalized so that
// composed and decomposed spellings compare equal; a blank name is an error.
func New(places []Place) (*Gazetteer, error) {
	out := make([]Place, len(places))
	for i, p := range places {
		name := norm.NFC.String(strings.TrimSpace(p.Name))
		if name == "" {
			return nil, eris.Errorf("gazetteer: place %d has no name", i)
		}
		p.Name = name
		out[i] = p
	}
	return &Gazetteer{places: out}, nil
}

// Parse reads a YAML document with a top-level "places" list.
func Parse(data []byte) (*Gazetteer, error) {
	var doc struct {
		Places []Place `yaml:"places"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "gazetteer: parse")
	}
	return New(doc.Places)
}

// Load reads a gazetteer file. An empty path loads the built-in Medellín
// comunas.
func Load(path string) (*Gazetteer, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: read %s", path)
	}
	return Parse(data)
}

// Default returns the built-in Medellín comunas.
func Default() (*Gazetteer, error) {
	return Parse(defaultYAML)
}

// Places returns a copy of the place list.
func (g *Gazetteer) Places() []Place {
	out := make([]Place, len(g.places))
	copy(out, g.places)
	return out
}

// Len returns the number of places.
func (g *Gazetteer) Len() int { return len(g.places) }

// Nearest returns the place with the smallest squared planar distance to
// pos. On a tie the earlier place wins. ok is false when the gazetteer is
// empty.
func (g *Gazetteer) Nearest(pos model.LatLng) (Place, bool) {
	best := -1
	bestDist := 0.0
	for i, p := range g.places {
		dLat := p.Lat - pos.Lat
		dLng := p.Lng - pos.Lng
		d := dLat*dLat + dLng*dLng
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Place{}, false
	}
	return g.places[best], true
}

// Label returns the name of the nearest place, or "" if there is none.
func (g *Gazetteer) Label(pos model.LatLng) string {
	p, ok := g.Nearest(pos)
	if !ok {
		return ""
	}
	return p.Name
}
