// Package samples reads and writes weighted samples as CSV with a header row.
package samples

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/zonemesh/internal/model"
)

// record is the flat CSV layout of a model.Sample.
type record struct {
	Lat            float64 `csv:"lat"`
	Lng            float64 `csv:"lng"`
	Population     int     `csv:"population"`
	Source         string  `csv:"source,omitempty"`
	Age            float64 `csv:"age"`
	Strata         float64 `csv:"strata"`
	Income         float64 `csv:"income"`
	EmploymentRate float64 `csv:"employment_rate"`
	Education      string  `csv:"education,omitempty"`
	Occupation     string  `csv:"occupation,omitempty"`
	Interest       string  `csv:"interest,omitempty"`
	Connectivity   string  `csv:"connectivity,omitempty"`
	VoteMayor      string  `csv:"vote_mayor,omitempty"`
	VoteGovernor   string  `csv:"vote_governor,omitempty"`
	VoteCouncil    string  `csv:"vote_council,omitempty"`
	VoteAssembly   string  `csv:"vote_assembly,omitempty"`
	VoteCongress   string  `csv:"vote_congress,omitempty"`
	Spectrum       string  `csv:"spectrum,omitempty"`
}

func toRecord(s model.Sample) record {
	return record{
		Lat: s.Position.Lat, Lng: s.Position.Lng,
		Population: s.Population, Source: s.Source,
		Age: s.Age, Strata: s.Strata, Income: s.Income, EmploymentRate: s.EmploymentRate,
		Education: s.Education, Occupation: s.Occupation, Interest: s.Interest,
		Connectivity: s.Connectivity, VoteMayor: s.VoteMayor, VoteGovernor: s.VoteGovernor,
		VoteCouncil: s.VoteCouncil, VoteAssembly: s.VoteAssembly, VoteCongress: s.VoteCongress,
		Spectrum: s.Spectrum,
	}
}

func (r record) sample() model.Sample {
	return model.Sample{
		Position:   model.LatLng{Lat: r.Lat, Lng: r.Lng},
		Population: r.Population, Source: r.Source,
		Age: r.Age, Strata: r.Strata, Income: r.Income, EmploymentRate: r.EmploymentRate,
		Education: r.Education, Occupation: r.Occupation, Interest: r.Interest,
		Connectivity: r.Connectivity, VoteMayor: r.VoteMayor, VoteGovernor: r.VoteGovernor,
		VoteCouncil: r.VoteCouncil, VoteAssembly: r.VoteAssembly, VoteCongress: r.VoteCongress,
		Spectrum: r.Spectrum,
	}
}

// Write encodes samples to w, header first.
func Write(w io.Writer, samples []model.Sample) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(record{}); err != nil {
		return eris.Wrap(err, "samples: write header")
	}
	for i, s := range samples {
		if err := enc.Encode(toRecord(s)); err != nil {
			return eris.Wrapf(err, "samples: write row %d", i+1)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "samples: flush")
}

// Read decodes samples from r. Only lat, lng and population are required
// columns; unknown columns are ignored. A negative population is an error.
func Read(r io.Reader) ([]model.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "samples: read header")
	}
	if err := requireColumns(dec.Header(), "lat", "lng", "population"); err != nil {
		return nil, err
	}

	var out []model.Sample
	for {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "samples: decode row %d", len(out)+1)
		}
		if rec.Population < 0 {
			return nil, eris.Errorf("samples: row %d: negative population %d", len(out)+1, rec.Population)
		}
		out = append(out, rec.sample())
	}
	return out, nil
}

// WriteFile writes samples to path, replacing any existing file.
func WriteFile(path string, samples []model.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "samples: create %s", path)
	}
	if err := Write(f, samples); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "samples: close %s", path)
}

// ReadFile reads samples from path.
func ReadFile(path string) ([]model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "samples: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return Read(f)
}

func requireColumns(header []string, names ...string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, n := range names {
		if !have[n] {
			return eris.Errorf("samples: missing column %q", n)
		}
	}
	return nil
}
