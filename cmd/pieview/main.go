// Command pieview plays an animated pie chart in the terminal.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/piefile"
	"github.com/ha1tch/pie-toolkit/pkg/scene"
)

// MessageType distinguishes status bar messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
)

// Viewer holds all viewer state
type Viewer struct {
	screen   tcell.Screen
	config   Config
	log      *zap.Logger
	doc      *piefile.Document
	filename string
	player   *scene.Player

	paused      bool
	lastTick    time.Time
	message     string
	messageType MessageType
}

func main() {
	cfg, err := LoadConfig(ConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring %s: %v\n", ConfigPath(), err)
	}
	log, err := newLogger(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log %s: %v\n", cfg.LogFile, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	v := &Viewer{config: cfg, log: log}

	// Check command line, then fall back to the last file viewed
	filename := cfg.LastFile
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}
	if err := v.loadFile(filename); err != nil {
		if len(os.Args) > 1 {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
			os.Exit(1)
		}
		v.loadDemo()
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.Clear()
	v.screen = screen

	v.restart()
	v.run()

	screen.Fini()

	if v.filename != "" {
		v.config.LastFile = v.filename
		if err := SaveConfig(ConfigPath(), v.config); err != nil {
			log.Warn("saving config failed", zap.Error(err))
		}
	}
}

func (v *Viewer) run() {
	interval := time.Second / time.Duration(v.config.FPS)
	quit := make(chan struct{})
	defer close(quit)

	// Ticks are turned into interrupts so that the timeline only ever
	// advances on this goroutine.
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				v.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		v.draw()
		v.screen.Show()

		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.resize()
			v.screen.Sync()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		case *tcell.EventInterrupt:
			v.tick(time.Now())
		case nil:
			return
		}
	}
}

// tick advances the animation by the wall time since the last tick.
func (v *Viewer) tick(now time.Time) {
	dt := now.Sub(v.lastTick)
	v.lastTick = now
	if v.paused || v.player == nil || dt <= 0 {
		return
	}
	v.player.Step(dt)
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return true
		case 'r', 'R', ' ':
			v.replay()
		case 'p', 'P':
			v.paused = !v.paused
			v.lastTick = time.Now()
		case 'l', 'L':
			v.toggleLabelReveal()
		}
	}
	return false
}

func (v *Viewer) toggleLabelReveal() {
	if v.config.LabelReveal == "slice" {
		v.config.LabelReveal = "end"
	} else {
		v.config.LabelReveal = "slice"
	}
	reveal := pie.RevealAtEnd
	if v.config.LabelReveal == "slice" {
		reveal = pie.RevealPerSlice
	}
	v.player.Chart.SetLabelReveal(reveal)
	v.showMessage("Labels: "+reveal.String(), MsgInfo)
	v.replay()
}

// restart builds a player for the current screen size and starts it.
func (v *Viewer) restart() {
	w, h := v.canvasSize()
	v.player = scene.NewPlayer(v.doc.Slices, w, h, v.chartOptions())
	v.replay()
}

// replay runs the animation again from the first slice.
func (v *Viewer) replay() {
	v.paused = false
	v.lastTick = time.Now()
	if err := v.player.Play(); err != nil {
		v.log.Warn("animation failed", zap.Error(err))
		v.showMessage(err.Error(), MsgError)
	}
}

// resize rebuilds the player for the new size at the same point in time.
func (v *Viewer) resize() {
	if v.player == nil {
		return
	}
	at := v.player.Elapsed()
	w, h := v.canvasSize()
	v.player = scene.NewPlayer(v.doc.Slices, w, h, v.chartOptions())
	if err := v.player.Seek(at); err != nil {
		v.showMessage(err.Error(), MsgError)
	}
}

func (v *Viewer) chartOptions() pie.Options {
	opts := v.config.ChartOptions(v.log.Named("chart"))
	if v.doc.Duration > 0 {
		opts.TotalDuration = v.doc.Duration
	}
	if v.doc.LabelSlots > 0 {
		opts.LabelSlots = v.doc.LabelSlots
		opts.ClampOverflow = opts.ClampOverflow || v.doc.Clamp
	}
	return opts
}

// canvasSize is the drawing area in pixels, two per cell vertically.
func (v *Viewer) canvasSize() (int, int) {
	w, h := v.screen.Size()
	h -= 2 // help and status bars
	if h < 1 {
		h = 1
	}
	return w, h * 2
}

func (v *Viewer) showMessage(msg string, msgType MessageType) {
	v.message = msg
	v.messageType = msgType
}

func (v *Viewer) loadFile(path string) error {
	if path == "" {
		return fmt.Errorf("no file")
	}
	doc, err := piefile.Load(path)
	if err != nil {
		return err
	}
	v.doc = doc
	v.filename = path
	v.log.Info("loaded chart", zap.String("file", path), zap.Int("slices", len(doc.Slices)))
	return nil
}

func (v *Viewer) loadDemo() {
	v.doc = piefile.Demo()
	v.filename = ""
}
