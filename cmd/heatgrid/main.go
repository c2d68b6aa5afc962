// Command heatgrid interpolates a recorded sensor history into temperature
// and humidity grids.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/flywave/go-heatgrid"
	"github.com/flywave/go-heatgrid/config"
	"github.com/flywave/go-heatgrid/metrics"
	"github.com/flywave/go-heatgrid/roster"
)

type channelOutput struct {
	Channel    roster.Channel       `json:"channel"`
	Algorithm  string               `json:"algorithm"`
	Grid       *heatgrid.Grid       `json:"grid,omitempty"`
	Degenerate *heatgrid.Degenerate `json:"degenerate,omitempty"`
}

type document struct {
	Run      string            `json:"run"`
	Snapshot string            `json:"snapshot"`
	At       *time.Time        `json:"at,omitempty"`
	Spec     heatgrid.GridSpec `json:"spec"`
	Channels []channelOutput   `json:"channels"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("heatgrid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "gcfg configuration file (defaults to $HEATGRID_CONFIG)")
	historyPath := fs.String("history", "", "JSON array of sensor readings")
	at := fs.String("at", "", "RFC 3339 time; use the latest readings taken before it")
	index := fs.Int("index", -1, "history scrub index; use the latest readings before that point")
	out := fs.String("out", "", "output file (defaults to stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *historyPath == "" {
		return errors.New("-history is required")
	}
	if *at != "" && *index >= 0 {
		return errors.New("-at and -index are mutually exclusive")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger := newLogger(stderr, cfg.LogLevel()).With("run", runID.String())

	history, err := loadHistory(*historyPath)
	if err != nil {
		return err
	}

	doc := document{Run: runID.String(), Spec: cfg.GridSpec()}

	var readings []roster.Reading
	switch {
	case *at != "":
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("parse -at: %w", err)
		}
		doc.At = &t
		readings = history.LatestBefore(t)
	case *index >= 0:
		t := history.TimeAt(*index)
		doc.At = &t
		readings = history.LatestBefore(t)
	default:
		readings = history.Latest()
	}

	r := roster.New(cfg.AreaRect(), cfg.Sensors())
	matched := r.ApplyAll(readings)
	snap := r.Snapshot()
	doc.Snapshot = snap.ID.String()
	logger.Info("snapshot ready", "readings", len(readings), "matched", matched, "sensors", len(snap.Sensors))

	rec := metrics.NewRecorder("heatgrid")
	ev := &heatgrid.Evaluator{Workers: cfg.Engine.Workers, Logger: logger, Observer: rec}

	doc.Channels = make([]channelOutput, len(roster.Channels))
	var g errgroup.Group
	for i, ch := range roster.Channels {
		i, ch := i, ch
		g.Go(func() error {
			alg, err := cfg.Algorithm(ch)
			if err != nil {
				return err
			}
			res, err := ev.Evaluate(snap.Samples(ch), cfg.GridSpec(), alg)
			if err != nil {
				return fmt.Errorf("%s: %w", ch, err)
			}
			o := channelOutput{Channel: ch, Algorithm: alg.String()}
			switch v := res.(type) {
			case *heatgrid.Grid:
				o.Grid = v
				logger.Info("grid evaluated", "channel", string(ch), "algorithm", alg.String(), "min", v.Minimum, "max", v.Maximum)
			case *heatgrid.Degenerate:
				o.Degenerate = v
				logger.Info("flat field", "channel", string(ch), "reason", string(v.Reason), "samples", len(v.Samples))
			}
			doc.Channels[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeDocument(doc, *out, stdout); err != nil {
		return err
	}

	if cfg.Engine.MetricsFile != "" {
		if err := rec.WriteTextfile(cfg.Engine.MetricsFile); err != nil {
			logger.Error("failed to write metrics", "file", cfg.Engine.MetricsFile, "error", err)
		}
	}
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadHistory(path string) (*roster.History, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := roster.LoadHistory(f)
	if err != nil {
		return nil, fmt.Errorf("load history %s: %w", path, err)
	}
	return h, nil
}

func writeDocument(doc document, path string, stdout io.Writer) error {
	if path == "" {
		return encodeDocument(doc, stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeDocument(doc, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func encodeDocument(doc document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
