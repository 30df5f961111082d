package samples

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/synth"
)

func TestWriteRead(t *testing.T) {
	in := synth.New(2).Generate(1600)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, in))

	header, _, _ := strings.Cut(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(header, "lat,lng,population,source,age"))

	out, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRead_MinimalColumns(t *testing.T) {
	doc := "population,lng,lat,extra\n120,-75.5,6.2,x\n80,-75.6,6.3,y\n"

	out, err := Read(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, model.Sample{Position: model.LatLng{Lat: 6.2, Lng: -75.5}, Population: 120}, out[0])
	assert.Equal(t, 80, out[1].Population)
}

func TestRead_Empty(t *testing.T) {
	out, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := Read(strings.NewReader("lat,lng\n1,2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing column "population"`)
}

func TestRead_BadValue(t *testing.T) {
	_, err := Read(strings.NewReader("lat,lng,population\n1,2,many\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode row 1")
}

func TestRead_NegativePopulation(t *testing.T) {
	_, err := Read(strings.NewReader("lat,lng,population\n1,2,5\n1,2,-5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2: negative population")
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.csv")
	in := []model.Sample{
		{Position: model.LatLng{Lat: 6.25, Lng: -75.56}, Population: 110, Source: "Comuna 10", Education: model.EducationTechnical},
	}

	require.NoError(t, WriteFile(path, in))
	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
