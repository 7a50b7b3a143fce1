// Command groove plays a chord progression with drums, bass and melody in
// the terminal, driven by the lookahead scheduler.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/config"
	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/scheduler"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

type runOptions struct {
	song       songOptions
	instrument string
	pack       string
	samplesDir string
	logFile    string
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "groove",
		Short: "Play a chord progression with drums in the terminal",
		Long: `Play a preset progression with chords, bass, melody and drums.
Drums come from the preset, a library pattern, a text grid file or the
top recommendation, and are checked against the genre rules first.

Keys: space play/stop, 1-4 mute chords/bass/drums/melody, +/- tempo,
n next preset, i next instrument, q quit.

Examples:
  groove --preset "Chill Lo-Fi" --recommend
  groove --pattern boom-bap --melody arpeggio --bpm 92
  groove --grid beat.txt --pack jazz`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.song.Preset, "preset", "p", "", "Preset progression: "+presetNames())
	f.StringVar(&opts.song.PatternID, "pattern", "", "Library pattern id for the drums")
	f.StringVarP(&opts.song.GridFile, "grid", "g", "", "Drum pattern file in text notation")
	f.BoolVarP(&opts.song.Recommend, "recommend", "r", false, "Use the best recommended library pattern")
	f.StringVarP(&opts.song.MelodyStyle, "melody", "m", "", "Melody style (simple, arpeggio, ambient, lead, rhythmic)")
	f.Float64Var(&opts.song.BPM, "bpm", 0, "Tempo override")
	f.StringVarP(&opts.instrument, "instrument", "i", string(engine.DefaultInstrument), "Chord instrument")
	f.StringVar(&opts.pack, "pack", "", "Drum sample pack (default: the genre's pack)")
	f.StringVar(&opts.samplesDir, "samples", cfg.SamplesDir, "Sample pack directory (defaults to SAMPLES_DIR)")
	f.StringVar(&opts.logFile, "log", "groove.log", "Log file while the terminal shows the player")
	cmd.MarkFlagsMutuallyExclusive("pattern", "grid", "recommend")
	return cmd
}

// validate checks the options that can fail before the terminal is taken
func (o runOptions) validate() error {
	if _, err := presetIndex(o.song.Preset); err != nil {
		return err
	}
	if _, err := engine.ParseInstrument(o.instrument); err != nil {
		return err
	}
	if o.pack != "" {
		if _, ok := genre.Pack(genre.PackID(o.pack)); !ok {
			return fmt.Errorf("unknown pack %q", o.pack)
		}
	}
	if o.song.BPM < 0 || o.song.BPM > maxBPM {
		return fmt.Errorf("bpm must be between %d and %d", minBPM, maxBPM)
	}
	return nil
}

func presetNames() string {
	var names []string
	for _, p := range models.Presets() {
		names = append(names, fmt.Sprintf("%q", p.Label))
	}
	return strings.Join(names, ", ")
}

func run(ctx context.Context, cfg *config.Config, opts runOptions) error {
	idx, err := presetIndex(opts.song.Preset)
	if err != nil {
		return err
	}
	in, err := engine.ParseInstrument(opts.instrument)
	if err != nil {
		return err
	}

	// The player owns the terminal from here on
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		log.SetOutput(f)
	}

	var samples *engine.SampleCache
	if opts.samplesDir != "" {
		samples = engine.NewSampleCache(os.DirFS(opts.samplesDir), engine.DefaultSampleRate)
	}
	e := engine.New(engine.Config{Samples: samples})
	e.SetInstrument(in)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	redraw := func() {
		// wakes the event loop, which redraws
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}

	timing := scheduler.Config{
		PollInterval: cfg.SchedulerPoll,
		Lookahead:    cfg.SchedulerLookahead,
	}
	p := newPlayer(e, timing, opts.song, genre.PackID(opts.pack), idx, redraw)

	if ctx == nil {
		ctx = context.Background()
	}
	if err := p.load(ctx); err != nil {
		return err
	}

	if err := engine.StartSpeaker(e, engine.DefaultLatency); err != nil {
		return err
	}
	defer engine.StopSpeaker()
	defer p.stop()

	return loop(ctx, screen, p)
}

func loop(ctx context.Context, screen tcell.Screen, p *player) error {
	draw(screen, p.snapshot())
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			act, part := keyAction(ev)
			switch act {
			case actionQuit:
				return nil
			case actionToggle:
				p.togglePlay()
			case actionFaster:
				p.nudgeBPM(bpmStep)
			case actionSlower:
				p.nudgeBPM(-bpmStep)
			case actionNextPreset:
				if err := p.nextPreset(ctx); err != nil {
					logger.Error("Failed to load preset", err, nil)
				}
			case actionNextInstrument:
				p.nextInstrument()
			case actionMute:
				p.toggleMute(part)
			}
		}
		draw(screen, p.snapshot())
	}
}
