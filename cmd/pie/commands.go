package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/piefile"
	"github.com/ha1tch/pie-toolkit/pkg/scene"
)

var (
	outputPath string
	width      int
	height     int
	title      string
	renderAt   time.Duration
	animate    bool
	fps        int
	hold       time.Duration
)

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render one moment of the animation to PNG or SVG",
	Long: `Renders the chart as it looks --at the given time after the animation
starts; by default the finished chart. With --animate an SVG output plays
the whole animation in the browser.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var gifCmd = &cobra.Command{
	Use:   "gif <input>",
	Short: "Render the whole animation to an animated GIF",
	Args:  cobra.ExactArgs(1),
	RunE:  runGIF,
}

var infoCmd = &cobra.Command{
	Use:   "info <input>",
	Short: "Show slice geometry and timing",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var validateCmd = &cobra.Command{
	Use:   "validate <input>",
	Short: "Check that slices fit in a circle and in the label slots",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert between JSON and YAML chart documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	for _, c := range []*cobra.Command{renderCmd, gifCmd, convertCmd} {
		c.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	}
	for _, c := range []*cobra.Command{renderCmd, gifCmd} {
		c.Flags().IntVar(&width, "width", 400, "canvas width in pixels")
		c.Flags().IntVar(&height, "height", 400, "canvas height in pixels")
		c.Flags().StringVarP(&title, "title", "t", "", "chart title (default from document)")
	}
	renderCmd.Flags().DurationVar(&renderAt, "at", -1, "time into the animation; negative renders the finished chart")
	renderCmd.Flags().BoolVar(&animate, "animate", false, "write an animated SVG")
	gifCmd.Flags().IntVar(&fps, "fps", 25, "frames per second")
	gifCmd.Flags().DurationVar(&hold, "hold", time.Second, "how long the finished chart is shown before looping")
}

func runRender(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	opts, err := chartOptions(doc)
	if err != nil {
		return err
	}
	if outputPath == "" {
		return fmt.Errorf("missing --output (.png or .svg)")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	chartTitle := title
	if chartTitle == "" {
		chartTitle = doc.Title
	}

	ext := strings.ToLower(filepath.Ext(outputPath))
	if ext != ".png" && ext != ".svg" {
		return fmt.Errorf("unknown output format: %s", ext)
	}
	if animate && ext != ".svg" {
		return fmt.Errorf("--animate needs an .svg output")
	}

	// A failed render must not leave a file behind.
	var buf bytes.Buffer
	if animate {
		svgOpts := piefile.DefaultSVGOptions()
		svgOpts.Title = chartTitle
		if err := piefile.RenderAnimatedSVG(&buf, doc.Slices, width, height, opts, svgOpts); err != nil {
			return err
		}
		return writeOutput(cmd, buf.Bytes())
	}

	p := scene.NewPlayer(doc.Slices, width, height, opts)
	at := renderAt
	if at < 0 {
		at = p.Duration()
	}
	if err := p.Seek(at); err != nil {
		return err
	}
	logger.Debug("frame captured",
		zap.Duration("at", at),
		zap.String("status", p.Chart.Status()))

	frame := p.Frame()
	if ext == ".svg" {
		svgOpts := piefile.DefaultSVGOptions()
		svgOpts.Title = chartTitle
		err = piefile.RenderSVG(&buf, frame, svgOpts)
	} else {
		pngOpts := piefile.DefaultPNGOptions()
		pngOpts.Title = chartTitle
		err = piefile.RenderPNG(&buf, frame, pngOpts)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, buf.Bytes())
}

func runGIF(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	opts, err := chartOptions(doc)
	if err != nil {
		return err
	}
	if outputPath == "" {
		return fmt.Errorf("missing --output (.gif)")
	}
	chartTitle := title
	if chartTitle == "" {
		chartTitle = doc.Title
	}

	gifOpts := piefile.DefaultGIFOptions()
	gifOpts.Width, gifOpts.Height = width, height
	gifOpts.FPS = fps
	gifOpts.Hold = hold
	gifOpts.Frame.Title = chartTitle

	frames, err := piefile.GIFFrames(doc.Slices, opts, gifOpts)
	if err != nil {
		return err
	}
	logger.Debug("gif frames rendered", zap.Int("frames", len(frames.Image)), zap.Int("fps", fps))

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := piefile.EncodeGIF(f, frames); err != nil {
		return err
	}
	return written(cmd, f)
}

func runInfo(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	opts, err := chartOptions(doc)
	if err != nil {
		return err
	}
	applyOptions(doc, opts)
	piefile.Describe(doc).Print(cmd.OutOrStdout())
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	opts, err := chartOptions(doc)
	if err != nil {
		return err
	}
	applyOptions(doc, opts)
	info := piefile.Describe(doc)
	if info.Problem != nil {
		return fmt.Errorf("validation failed: %w", info.Problem)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid chart with %d slices covering %s, %v\n",
		args[0], len(doc.Slices), pie.FormatPercent(info.Total), info.Duration)
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	doc, err := loadDocument(args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	if outputPath == "" {
		data, err := piefile.Encode(doc, piefile.FormatJSON)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := piefile.Save(outputPath, doc); err != nil {
		return fmt.Errorf("error writing %s: %w", outputPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", outputPath)
	return nil
}

// applyOptions copies flag overrides back into doc so that Describe
// reports what the chart would actually do.
func applyOptions(doc *piefile.Document, opts pie.Options) {
	doc.Duration = opts.TotalDuration
	doc.LabelReveal = opts.LabelReveal
	doc.LabelSlots = opts.LabelSlots
	doc.Clamp = opts.ClampOverflow
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", outputPath)
	return nil
}

func written(cmd *cobra.Command, f *os.File) error {
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", f.Name())
	return nil
}
