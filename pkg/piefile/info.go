package piefile

import (
	"fmt"
	"io"
	"time"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
)

// SliceInfo describes one slice as the chart will draw it.
type SliceInfo struct {
	Index      int
	Dropped    bool // beyond the label slots and clamped away
	Percent    float64
	Color      string
	From, To   float64 // cumulative percent before and after the slice
	StartAngle float64 // degrees, clockwise from 3 o'clock
	EndAngle   float64
	Duration   time.Duration
	Label      string
}

// Info summarizes a document.
type Info struct {
	Title    string
	Slices   []SliceInfo
	Total    float64
	Duration time.Duration
	Labels   pie.LabelReveal
	Problem  error // first validation or capacity problem, if any
}

// Describe computes the geometry and timing of every slice in doc.
func Describe(doc *Document) Info {
	opts := doc.Options()
	info := Info{
		Title:    doc.Title,
		Total:    pie.Sum(doc.Slices),
		Duration: pie.TotalDuration(opts.Drawn(doc.Slices), opts.TotalDuration),
		Labels:   opts.LabelReveal,
		Problem:  pie.Validate(doc.Slices),
	}
	if info.Problem == nil && opts.LabelSlots > 0 && len(doc.Slices) > opts.LabelSlots && !opts.ClampOverflow {
		dropped := make([]int, 0, len(doc.Slices)-opts.LabelSlots)
		for i := opts.LabelSlots; i < len(doc.Slices); i++ {
			dropped = append(dropped, i)
		}
		info.Problem = &pie.CapacityError{Slots: opts.LabelSlots, Dropped: dropped}
	}

	cumulative := 0.0
	for i, s := range doc.Slices {
		from := cumulative
		cumulative += s.Percent
		info.Slices = append(info.Slices, SliceInfo{
			Index:      i,
			Dropped:    i >= len(opts.Drawn(doc.Slices)),
			Percent:    s.Percent,
			Color:      FormatColor(opaque(s.Color)),
			From:       from,
			To:         cumulative,
			StartAngle: pie.NormalizeDegrees(pie.StartDegrees + from*360),
			EndAngle:   pie.NormalizeDegrees(pie.StartDegrees + cumulative*360),
			Duration:   pie.Duration(s, opts.TotalDuration),
			Label:      pie.FormatPercent(s.Percent),
		})
	}
	return info
}

// Print writes info as aligned text.
func (info Info) Print(w io.Writer) {
	if info.Title != "" {
		fmt.Fprintf(w, "Title:    %s\n", info.Title)
	}
	fmt.Fprintf(w, "Slices:   %d\n", len(info.Slices))
	fmt.Fprintf(w, "Total:    %s\n", pie.FormatPercent(info.Total))
	fmt.Fprintf(w, "Duration: %v\n", info.Duration)
	fmt.Fprintf(w, "Labels:   %v\n", info.Labels)
	if info.Problem != nil {
		fmt.Fprintf(w, "Problem:  %v\n", info.Problem)
	}
	if len(info.Slices) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %-3s %-6s %-8s %-15s %-17s %s\n", "#", "label", "color", "span", "angle", "time")
	for _, s := range info.Slices {
		t := s.Duration.String()
		if s.Dropped {
			t = "dropped"
		}
		fmt.Fprintf(w, "  %-3d %-6s %-8s %-15s %-17s %s\n",
			s.Index, s.Label, s.Color,
			fmt.Sprintf("%.3f-%.3f", s.From, s.To),
			fmt.Sprintf("%.1f°-%.1f°", s.StartAngle, s.EndAngle),
			t)
	}
}
