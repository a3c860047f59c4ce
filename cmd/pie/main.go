// Command pie renders, inspects and steps through animated pie charts.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/piefile"
)

var (
	// Global flags
	verbose    bool
	duration   time.Duration
	labels     string
	labelSlots int
	clamp      bool
	validate   bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pie",
	Short: "pie - animated pie chart toolkit",
	Long: `pie draws pie charts whose slices are stroked one after another,
each taking a share of the total duration equal to its share of the circle.

Input is a .json or .yaml chart document, or "demo" for the built-in
40/30/20/10 chart.

Examples:
  pie render demo -o demo.png
  pie render chart.yaml -o half.svg --at 700ms
  pie render chart.yaml -o chart.svg --animate
  pie gif chart.json -o chart.gif --fps 30
  pie info chart.yaml
  pie run demo`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Encoding = "console"
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "log sequencer events")
	pf.DurationVar(&duration, "duration", 0, "time for a full circle (default from document, else 1.4s)")
	pf.StringVar(&labels, "labels", "", "label reveal: end or slice (default from document)")
	pf.IntVar(&labelSlots, "label-slots", 0, fmt.Sprintf("fixed label slots, e.g. %d (default from document)", pie.MaxSlices))
	pf.BoolVar(&clamp, "clamp", false, "drop slices beyond the label slots instead of failing")
	pf.BoolVar(&validate, "validate", false, "reject slice sets that do not fit in a circle")

	rootCmd.AddCommand(renderCmd, gifCmd, infoCmd, validateCmd, convertCmd, runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDocument reads a chart document, "demo" selects the built-in chart.
func loadDocument(path string) (*piefile.Document, error) {
	if path == "demo" {
		return piefile.Demo(), nil
	}
	return piefile.Load(path)
}

// chartOptions applies the global flags on top of the document settings.
func chartOptions(doc *piefile.Document) (pie.Options, error) {
	opts := doc.Options()
	if duration > 0 {
		opts.TotalDuration = duration
	}
	switch labels {
	case "":
	case "end":
		opts.LabelReveal = pie.RevealAtEnd
	case "slice":
		opts.LabelReveal = pie.RevealPerSlice
	default:
		return opts, fmt.Errorf("invalid --labels %q (must be end or slice)", labels)
	}
	if labelSlots > 0 {
		opts.LabelSlots = labelSlots
	}
	if clamp {
		opts.ClampOverflow = true
	}
	opts.Validate = validate
	opts.Logger = logger.Named("chart")
	return opts, nil
}
