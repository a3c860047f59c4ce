package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/scene"
)

const defaultStep = 100 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Step through the animation interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return fmt.Errorf("error loading %s: %w", args[0], err)
		}
		opts, err := chartOptions(doc)
		if err != nil {
			return err
		}
		p := scene.NewPlayer(doc.Slices, 400, 400, opts)
		title := doc.Title
		if title == "" {
			title = args[0]
		}
		return runSession(cmd.InOrStdin(), cmd.OutOrStdout(), title, p)
	},
}

// runSession reads commands from in until quit or EOF.
func runSession(in io.Reader, out io.Writer, title string, p *scene.Player) error {
	fmt.Fprintf(out, "Chart: %s (%d slices, %v)\n", title, len(p.Chart.Slices()), p.Duration())
	fmt.Fprintf(out, "Commands: play, step [dur], seek <dur>, end, cancel, status, history, labels, quit\n")
	fmt.Fprintln(out)

	printStatus(out, p)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit", "q":
			return nil
		case "play", "restart", "p":
			if err := p.Play(); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			printStatus(out, p)
		case "step", "s":
			dt := defaultStep
			if len(fields) > 1 {
				d, err := time.ParseDuration(fields[1])
				if err != nil {
					fmt.Fprintf(out, "Error: %v\n", err)
					continue
				}
				dt = d
			}
			p.Step(dt)
			printStatus(out, p)
		case "seek":
			if len(fields) < 2 {
				fmt.Fprintln(out, "Usage: seek <duration>")
				continue
			}
			d, err := time.ParseDuration(fields[1])
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			if err := p.Seek(d); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			printStatus(out, p)
		case "end":
			p.Timeline.AdvanceToIdle(p.Duration())
			printStatus(out, p)
		case "cancel":
			p.Chart.Cancel()
			printStatus(out, p)
		case "status":
			printStatus(out, p)
		case "history":
			printHistory(out, p.Chart)
		case "labels":
			printLabels(out, p.Frame())
		case "help", "?":
			fmt.Fprintln(out, "Commands:")
			fmt.Fprintln(out, "  play        - Start or restart the animation")
			fmt.Fprintln(out, "  step [dur]  - Advance time (default 100ms)")
			fmt.Fprintln(out, "  seek <dur>  - Restart and advance to a time")
			fmt.Fprintln(out, "  end         - Run until nothing is animating")
			fmt.Fprintln(out, "  cancel      - Stop the animation")
			fmt.Fprintln(out, "  status      - Show sequencer state")
			fmt.Fprintln(out, "  history     - Show completed slices")
			fmt.Fprintln(out, "  labels      - Show label placement")
			fmt.Fprintln(out, "  quit        - Exit")
		default:
			fmt.Fprintf(out, "Unknown command: %s (try help)\n", fields[0])
		}
	}
}

func printStatus(out io.Writer, p *scene.Player) {
	status := fmt.Sprintf("[%v] %s", p.Elapsed(), p.Chart.Status())
	if err := p.Err(); err != nil {
		status += fmt.Sprintf(" error: %v", err)
	}
	fmt.Fprintln(out, status)
}

func printHistory(out io.Writer, c *pie.Chart) {
	history := c.History()
	if len(history) == 0 {
		fmt.Fprintln(out, "No history yet")
		return
	}

	fmt.Fprintln(out, "History:")
	for i, step := range history {
		fmt.Fprintf(out, "  %d: slice %d  %s -> %s  (%v)\n",
			i+1, step.Slice, pie.FormatPercent(step.From), pie.FormatPercent(step.To), step.Duration)
	}
}

func printLabels(out io.Writer, f scene.Frame) {
	if len(f.Labels) == 0 {
		fmt.Fprintln(out, "No labels placed")
		return
	}
	for _, l := range f.Labels {
		shown := "hidden"
		if l.Visible {
			shown = "shown"
		}
		fmt.Fprintf(out, "  %d: %-5s at (%.1f, %.1f) %s\n", l.Index, l.Text, l.At.X, l.At.Y, shown)
	}
}
