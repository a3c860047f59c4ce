// Package piefile reads and writes pie chart documents and renders
// animation frames to PNG, SVG and GIF.
package piefile

import (
	"fmt"
	"image/color"
	"time"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
)

// Document is a chart as stored on disk.
type Document struct {
	Title       string
	Slices      []pie.Slice
	Duration    time.Duration // zero means pie.DefaultTotalDuration
	LabelReveal pie.LabelReveal
	LabelSlots  int
	Clamp       bool // drop slices beyond LabelSlots instead of failing
}

// Options returns chart options for the document.
func (d *Document) Options() pie.Options {
	opts := pie.DefaultOptions()
	if d.Duration > 0 {
		opts.TotalDuration = d.Duration
	}
	opts.LabelReveal = d.LabelReveal
	opts.LabelSlots = d.LabelSlots
	opts.ClampOverflow = d.Clamp
	return opts
}

// Demo returns the four slice chart used when no input is given.
func Demo() *Document {
	return &Document{
		Title: "Demo",
		Slices: []pie.Slice{
			{Percent: 0.4, Color: namedColors["red"]},
			{Percent: 0.3, Color: namedColors["blue"]},
			{Percent: 0.2, Color: namedColors["purple"]},
			{Percent: 0.1, Color: namedColors["green"]},
		},
	}
}

// fileDoc is the serialized form shared by the JSON and YAML codecs.
type fileDoc struct {
	Title      string      `json:"title,omitempty" yaml:"title,omitempty"`
	Duration   string      `json:"duration,omitempty" yaml:"duration,omitempty"`
	Labels     string      `json:"labels,omitempty" yaml:"labels,omitempty"`
	LabelSlots int         `json:"label_slots,omitempty" yaml:"label_slots,omitempty"`
	Clamp      bool        `json:"clamp,omitempty" yaml:"clamp,omitempty"`
	Slices     []fileSlice `json:"slices" yaml:"slices"`
}

type fileSlice struct {
	Percent float64 `json:"percent" yaml:"percent"`
	Color   string  `json:"color,omitempty" yaml:"color,omitempty"`
}

func (fd *fileDoc) document() (*Document, error) {
	doc := &Document{
		Title:      fd.Title,
		LabelSlots: fd.LabelSlots,
		Clamp:      fd.Clamp,
	}
	if fd.Duration != "" {
		d, err := time.ParseDuration(fd.Duration)
		if err != nil {
			return nil, fmt.Errorf("duration: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("duration: negative value %s", fd.Duration)
		}
		doc.Duration = d
	}
	switch fd.Labels {
	case "", "end":
		doc.LabelReveal = pie.RevealAtEnd
	case "slice":
		doc.LabelReveal = pie.RevealPerSlice
	default:
		return nil, fmt.Errorf("labels: unknown mode %q (want end or slice)", fd.Labels)
	}
	if fd.LabelSlots < 0 {
		return nil, fmt.Errorf("label_slots: negative value %d", fd.LabelSlots)
	}

	palette := Palette(len(fd.Slices))
	for i, s := range fd.Slices {
		c := palette[i]
		if s.Color != "" {
			var err error
			if c, err = ParseColor(s.Color); err != nil {
				return nil, fmt.Errorf("slice %d: %w", i, err)
			}
		}
		doc.Slices = append(doc.Slices, pie.Slice{Percent: s.Percent, Color: c})
	}
	return doc, nil
}

func newFileDoc(doc *Document) *fileDoc {
	fd := &fileDoc{
		Title:      doc.Title,
		LabelSlots: doc.LabelSlots,
		Clamp:      doc.Clamp,
		Slices:     make([]fileSlice, 0, len(doc.Slices)),
	}
	if doc.Duration > 0 {
		fd.Duration = doc.Duration.String()
	}
	if doc.LabelReveal == pie.RevealPerSlice {
		fd.Labels = "slice"
	}
	for _, s := range doc.Slices {
		fd.Slices = append(fd.Slices, fileSlice{Percent: s.Percent, Color: FormatColor(opaque(s.Color))})
	}
	return fd
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}
