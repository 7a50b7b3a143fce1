// Command gensamples writes placeholder WAV sample packs synthesized from
// the engine's drum voices, laid out the way the sample cache reads them.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/config"
	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/gopxl/beep"
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

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		outDir     string
		sampleRate int
		packList   []string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "gensamples",
		Short: "Write synthesized WAV sample packs",
		Long: `Synthesize every round-robin sample of the drum packs and write them
as 16-bit mono WAV files, laid out the way the sample cache reads them.

Examples:
  gensamples --out ./samples
  gensamples --packs trap,jazz --sample-rate 48000`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			packs, err := resolvePacks(strings.Join(packList, ","))
			if err != nil {
				return err
			}
			n, err := generate(outDir, packs, beep.SampleRate(sampleRate), seed)
			if err != nil {
				return err
			}
			log.Printf("✅ Wrote %d samples for %d packs to %s", n, len(packs), outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", defaultOut(cfg), "Output directory (defaults to SAMPLES_DIR)")
	cmd.Flags().IntVar(&sampleRate, "sample-rate", int(engine.DefaultSampleRate), "Output sample rate")
	cmd.Flags().StringSliceVarP(&packList, "packs", "p", nil, "Pack ids to write (default: all)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Noise seed")
	return cmd
}

func defaultOut(cfg *config.Config) string {
	if cfg.SamplesDir != "" {
		return cfg.SamplesDir
	}
	return "samples"
}

func resolvePacks(list string) ([]*genre.Manifest, error) {
	if strings.TrimSpace(list) == "" {
		return genre.Packs(), nil
	}

	var out []*genre.Manifest
	for _, id := range strings.Split(list, ",") {
		m, ok := genre.Pack(genre.PackID(strings.TrimSpace(id)))
		if !ok {
			return nil, fmt.Errorf("unknown pack %q", id)
		}
		out = append(out, m)
	}
	return out, nil
}

// generate writes every round-robin variant of every pack and returns the
// number of files written
func generate(dir string, packs []*genre.Manifest, rate beep.SampleRate, seed int64) (int, error) {
	rnd := rand.New(rand.NewSource(seed)).Float64
	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}

	written := 0
	for _, m := range packs {
		for d, entries := range m.Drums {
			params := engine.VoiceParams(m.ID, d)
			for i, entry := range entries {
				buf := engine.SynthesizeDrum(d, engine.RoundRobin(d, params, i+1), rate, rnd)
				if err := writeSample(filepath.Join(dir, filepath.FromSlash(entry.Path)), buf, format); err != nil {
					return written, err
				}
				written++
			}
		}
	}
	return written, nil
}

func writeSample(path string, buf engine.Buffer, format beep.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := engine.EncodeWAV(f, buf.Streamer(), format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
