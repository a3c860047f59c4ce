package piefile

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"red", color.RGBA{255, 0, 0, 255}, false},
		{" Purple ", color.RGBA{128, 0, 128, 255}, false},
		{"#00ff00", color.RGBA{0, 255, 0, 255}, false},
		{"#0f0", color.RGBA{0, 255, 0, 255}, false},
		{"3366cc", color.RGBA{0x33, 0x66, 0xcc, 255}, false},
		{"", color.RGBA{}, true},
		{"#12", color.RGBA{}, true},
		{"chartreuse-ish", color.RGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatColor(t *testing.T) {
	assert.Equal(t, "blue", FormatColor(color.RGBA{0, 0, 255, 255}))
	assert.Equal(t, "#3366cc", FormatColor(color.RGBA{0x33, 0x66, 0xcc, 255}))
}

func TestPalette(t *testing.T) {
	p := Palette(6)
	require.Len(t, p, 6)
	seen := map[color.RGBA]bool{}
	for _, c := range p {
		assert.Equal(t, uint8(255), c.A)
		seen[c] = true
	}
	assert.Len(t, seen, 6, "palette colors should be distinct")
}

const sampleJSON = `{
  "title": "Market share",
  "duration": "2s",
  "labels": "slice",
  "label_slots": 5,
  "slices": [
    {"percent": 0.5, "color": "#336699"},
    {"percent": 0.25, "color": "orange"},
    {"percent": 0.25}
  ]
}`

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, "Market share", doc.Title)
	assert.Equal(t, 2*time.Second, doc.Duration)
	assert.Equal(t, pie.RevealPerSlice, doc.LabelReveal)
	require.Len(t, doc.Slices, 3)
	assert.Equal(t, color.RGBA{0x33, 0x66, 0x99, 255}, doc.Slices[0].Color)
	assert.Equal(t, namedColors["orange"], doc.Slices[1].Color)
	assert.Equal(t, Palette(3)[2], doc.Slices[2].Color, "missing colors come from the palette")

	opts := doc.Options()
	assert.Equal(t, 2*time.Second, opts.TotalDuration)
	assert.Equal(t, 5, opts.LabelSlots)
	assert.Equal(t, pie.RevealPerSlice, opts.LabelReveal)
}

const sampleYAML = `title: Demo
slices:
  - percent: 0.4
    color: red
  - percent: 0.3
    color: blue
  - percent: 0.2
    color: purple
  - percent: 0.1
    color: green
`

func TestParseYAML(t *testing.T) {
	doc, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, Demo(), doc)
	assert.Equal(t, pie.DefaultTotalDuration, doc.Options().TotalDuration)
}

func TestYAMLToJSON(t *testing.T) {
	doc, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := ToJSON(doc, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Demo","slices":[
		{"percent":0.4,"color":"red"},
		{"percent":0.3,"color":"blue"},
		{"percent":0.2,"color":"purple"},
		{"percent":0.1,"color":"green"}]}`, string(data))

	back, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"duration": `{"duration": "soon", "slices": []}`,
		"negative": `{"duration": "-1s", "slices": []}`,
		"labels":   `{"labels": "sometimes", "slices": []}`,
		"slots":    `{"label_slots": -2, "slices": []}`,
		"color":    `{"slices": [{"percent": 0.5, "color": "nope"}]}`,
		"syntax":   `{"slices": [`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	doc := Demo()
	doc.Duration = 3 * time.Second
	doc.LabelSlots = 4
	doc.Clamp = true

	for _, name := range []string{"chart.json", "chart.yaml", "chart.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, doc), name)
		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, doc, got, name)
	}

	assert.Error(t, Save(filepath.Join(dir, "chart.toml"), doc))
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadReportsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slices: [{percent: 0.5, color: nope}]\n"), 0644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestDescribe(t *testing.T) {
	info := Describe(Demo())
	require.NoError(t, info.Problem)
	require.Len(t, info.Slices, 4)
	assert.InDelta(t, 1.0, info.Total, 1e-9)
	assert.Equal(t, 1400*time.Millisecond, info.Duration)

	first := info.Slices[0]
	assert.Equal(t, "40%", first.Label)
	assert.Equal(t, "red", first.Color)
	assert.InDelta(t, 270, first.StartAngle, 1e-9)
	assert.InDelta(t, 54, first.EndAngle, 1e-9)
	assert.Equal(t, 560*time.Millisecond, first.Duration)

	last := info.Slices[3]
	assert.InDelta(t, 0.9, last.From, 1e-9)
	assert.InDelta(t, 1.0, last.To, 1e-9)
}

func TestDescribeClamped(t *testing.T) {
	doc := Demo()
	doc.LabelSlots = 2
	doc.Clamp = true

	info := Describe(doc)
	require.NoError(t, info.Problem)
	assert.Equal(t, 980*time.Millisecond, info.Duration)
	require.Len(t, info.Slices, 4)
	assert.False(t, info.Slices[1].Dropped)
	assert.True(t, info.Slices[2].Dropped)

	var buf bytes.Buffer
	info.Print(&buf)
	assert.Contains(t, buf.String(), "Duration: 980ms")
	assert.Contains(t, buf.String(), "dropped")
}

func TestDescribeProblems(t *testing.T) {
	doc := Demo()
	doc.LabelSlots = 3
	assert.ErrorIs(t, Describe(doc).Problem, pie.ErrOutOfCapacity)

	doc.Clamp = true
	assert.NoError(t, Describe(doc).Problem)

	doc = Demo()
	doc.Slices[0].Percent = 0.9
	assert.ErrorIs(t, Describe(doc).Problem, pie.ErrInvalidSliceSet)
}
