package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jsphweid/ornamentum/key"
	"github.com/jsphweid/ornamentum/metrics"
	"github.com/jsphweid/ornamentum/midi"
	"github.com/jsphweid/ornamentum/ornament"
	"github.com/jsphweid/ornamentum/sample"
	"github.com/jsphweid/ornamentum/score"
	"github.com/jsphweid/ornamentum/stream"
	"github.com/jsphweid/ornamentum/util"
	"github.com/spf13/cobra"
)

var (
	outPath    string
	showEvents bool
	fromTick   uint64
	maxNotes   int
)

func init() {
	realizeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the realized score here instead of stdout")
	realizeCmd.Flags().BoolVar(&showEvents, "events", false, "print the performance as note events instead of a score")
	realizeCmd.Flags().Uint64Var(&fromTick, "from", 0, "with --events, start at this tick")
	realizeCmd.Flags().IntVar(&maxNotes, "limit", 0, "with --events, print at most this many notes")
	rootCmd.AddCommand(realizeCmd)
}

var realizeCmd = &cobra.Command{
	Use:   "realize <score.yaml>",
	Short: "Realizes every ornament in a score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := score.Load(args[0])
		if err != nil {
			return err
		}
		e := &engine{defaultKey: cfg.DefaultKey, logger: logger}
		res, err := e.realize(f)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		if outPath != "" {
			file, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer file.Close()
			out = file
		}
		if showEvents {
			events, err := res.events(fromTick, maxNotes)
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, strings.Join(events, "\n")+"\n")
			return err
		}
		data, err := res.score.Marshal()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

// engine realizes whole scores and reports on what it did. metrics may be nil.
type engine struct {
	defaultKey *key.Signature
	logger     *slog.Logger
	metrics    *metrics.Realizations
}

type realized struct {
	score    *score.File
	measures []*stream.Measure
	numNotes uint64
	took     time.Duration
}

func (e *engine) count(m *stream.Measure, failed bool) {
	if e.metrics == nil {
		return
	}
	for _, n := range m.Notes {
		for _, ex := range n.Expressions {
			o, ok := ex.(*ornament.Ornament)
			if !ok {
				continue
			}
			switch {
			case failed:
				e.metrics.Ornament(o.Kind().String(), "failed")
			case o.Realizable():
				e.metrics.Ornament(o.Kind().String(), "realized")
			default:
				e.metrics.Ornament(o.Kind().String(), "skipped")
			}
		}
	}
}

func (e *engine) realize(f *score.File) (*realized, error) {
	start := time.Now()
	measures, err := f.Build(e.defaultKey)
	if err != nil {
		return nil, err
	}

	res := &realized{measures: make([]*stream.Measure, 0, len(measures))}
	counts := make([]int, 0, len(measures))
	for _, m := range measures {
		r, err := m.RealizeOrnaments()
		e.count(m, err != nil)
		if err != nil {
			return nil, fmt.Errorf("measure %d: %w", m.Number, err)
		}
		e.logger.Debug("realized measure", "measure", m.Number, "notes_in", len(m.Notes), "notes_out", len(r.Notes))
		res.measures = append(res.measures, r)
		counts = append(counts, len(r.Notes))
	}
	res.score = score.FromMeasures(f.Title, res.measures)
	res.numNotes = util.Sum(counts)
	res.took = time.Since(start)
	e.logger.Info("realized score", "title", f.Title, "measures", len(measures), "notes", res.numNotes, "took", res.took)
	return res, nil
}

// events renders the performance and cuts the window starting at from.
func (r *realized) events(from uint64, limit int) ([]string, error) {
	perf, err := midi.Performance(r.measures, midi.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return midi.Describe(sample.Window(perf.Tracks[0], from, limit)), nil
}
