package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/magphyx/internal/config"
	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/export"
	"github.com/san-kum/magphyx/internal/sim"
	"github.com/san-kum/magphyx/internal/storage"
	"github.com/san-kum/magphyx/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSTATUS\tRECORDS\tCOLLISIONS\tT")
	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.3f\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Status,
			run.Records,
			run.Collisions,
			run.T,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	rows, err := st.LoadEvents(meta.ID)
	if err != nil {
		return err
	}

	graph, err := viz.PlotColumn(rows, column, viz.PlotOptions{
		EventType: eventType,
		Width:     width,
		Height:    height,
	})
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("records: %d\n\n", len(rows))
	fmt.Println(graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func svgRun(cmd *cobra.Command, args []string) error {
	rows, err := storage.New(dataDir).LoadEvents(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return export.TrajectorySVG(out, export.Trajectory(rows, eventType), svgSize, "#00ff88")
}

// writeConfig resolves the same sources as run and writes the result, so
// a preset plus flags can be frozen into a file for --config.
func writeConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if !defaults {
		var err error
		if cfg, err = loadConfig(cmd); err != nil {
			return err
		}
	}
	if configOut == "" {
		return config.Write(os.Stdout, cfg)
	}
	return config.Save(configOut, cfg)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range config.ListPresets() {
		fmt.Fprintf(w, "%s\t%s\n", name, config.GetPreset(name).Description)
	}
	return w.Flush()
}

// runSweep runs each named preset, or every preset, into storage.
// Sample settings are dropped since stored runs hold event logs.
func runSweep(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	base, err := config.Load(configFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(base)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	jobs := make([]sim.Job, 0, len(names))
	for _, name := range names {
		cfg, err := presetConfig(name)
		if err != nil {
			return err
		}
		jobs = append(jobs, sim.Job{
			Name: name,
			Run: func() (*sim.Result, error) {
				return storeRun(st, cfg, name, logger.With(zap.String("preset", name)))
			},
		})
	}

	outcomes := sim.RunEnsemble(jobs, workers)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSTATUS\tRECORDS\tCOLLISIONS\tT")
	var failed int
	for _, o := range outcomes {
		status := storage.StatusComplete
		if o.Err != nil {
			status = storage.StatusFailed
			failed++
		}
		var res sim.Result
		if o.Result != nil {
			res = *o.Result
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.3f\n", o.Name, status, res.Records, res.Collisions, res.T)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d runs failed", failed, len(outcomes))
	}
	return nil
}

func presetConfig(name string) (config.Config, error) {
	v, err := config.NewViper(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyPreset(v, name); err != nil {
		return config.Config{}, err
	}
	v.Set("sample", "")
	v.Set("fft", false)
	return config.NewFromViper(v)
}

// storeRun runs cfg with its event log written into a new stored run.
func storeRun(st *storage.Store, cfg config.Config, name string, logger *zap.Logger) (*sim.Result, error) {
	return withRun(st, storage.MetadataFromConfig(cfg, name), logger,
		func(out io.Writer, _ string) (*sim.Result, error) {
			csv, err := event.NewCSVWriter(out)
			if err != nil {
				return nil, err
			}
			drv, _, err := newDriver(cfg, csv, logger)
			if err != nil {
				return nil, err
			}
			res, runErr := drv.Run()
			if err := csv.Flush(); err != nil && runErr == nil {
				runErr = err
			}
			return res, runErr
		})
}
