package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/magphyx/internal/analysis"
	"github.com/san-kum/magphyx/internal/config"
	"github.com/san-kum/magphyx/internal/event"
	"github.com/san-kum/magphyx/internal/initcond"
	"github.com/san-kum/magphyx/internal/integrators"
	"github.com/san-kum/magphyx/internal/metrics"
	"github.com/san-kum/magphyx/internal/observability"
	"github.com/san-kum/magphyx/internal/sim"
	"github.com/san-kum/magphyx/internal/storage"
	"github.com/san-kum/magphyx/internal/viz"
)

// nearContact is the gap below which a state counts toward near_contact.
const nearContact = 0.05

// flagKeys maps run flags onto config keys.
var flagKeys = map[string]string{
	"file":          "init_file",
	"output":        "output",
	"numEvents":     "num_events",
	"logOfNumSteps": "log_num_steps",
	"step":          "h",
	"eps":           "eps",
	"fixed":         "fixed",
	"sample":        "sample",
	"fft":           "fft",
	"log-level":     "logger.level",
	"log-file":      "logger.log_file",
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	// -h is the step size, so help keeps only its long form.
	f.Bool("help", false, "help for "+cmd.Name())

	f.Float64SliceP("init", "i", nil, "initial conditions r,theta,phi,pr,ptheta,pphi (degrees)")
	f.StringP("file", "f", "", "initial conditions CSV")
	f.StringP("output", "o", "", "output file (default stdout)")
	f.IntP("numEvents", "n", config.DefaultNumEvents, "stop after this many events, -1 to use --logOfNumSteps")
	f.Int("logOfNumSteps", -1, "stop after 2^n steps")
	f.Float64P("step", "h", config.DefaultH, "initial step size")
	f.Float64P("eps", "e", config.DefaultEps, "error per step")
	f.BoolP("fixed", "c", false, "fixed step size")
	f.StringP("sample", "s", "", "output theta or phi at every step instead of events")
	f.Bool("fft", false, "output the power spectrum of the sampled signal")
	f.String("log-level", "info", "log level")
	f.String("log-file", "", "also write JSON logs to this file")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}

// loadConfig layers defaults, preset, config file, environment and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.NewViper(configFile)
	if err != nil {
		return config.Config{}, err
	}
	if preset != "" {
		if err := config.ApplyPreset(v, preset); err != nil {
			return config.Config{}, err
		}
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.NewFromViper(v)
	if err != nil {
		return config.Config{}, err
	}
	if cfg.InitFile == "" {
		return cfg, nil
	}

	ic, err := initcond.Load(cfg.InitFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.WithInitial(ic)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if !flags.Changed("init") {
		return nil
	}
	vals, err := flags.GetFloat64Slice("init")
	if err != nil {
		return err
	}
	if len(vals) != len(initcond.Required) {
		return fmt.Errorf("--init needs %d values, got %d", len(initcond.Required), len(vals))
	}
	for i, name := range initcond.Required {
		v.Set("initial."+name, vals[i])
	}
	return nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	logger, err := observability.New(cfg.Logger, nil)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded",
		zap.Any("initial", cfg.Initial),
		zap.Float64("h", cfg.H),
		zap.Float64("eps", cfg.Eps),
		zap.Bool("fixed", cfg.Fixed),
		zap.Int("num_events", cfg.NumEvents),
		zap.Int("num_steps", cfg.NumSteps()),
	)
	return logger, nil
}

// newDriver wires a stepper and detector for cfg. The returned drift
// metric is also registered on the driver.
func newDriver(cfg config.Config, sink event.Sink, logger *zap.Logger) (*sim.Driver, *metrics.EnergyDrift, error) {
	d := cfg.Initial.Dipole()
	stepper := integrators.NewStepper(d, cfg.H, cfg.Eps, integrators.WithFixedStep(cfg.Fixed))
	det := event.NewDetector(sink, d, logger)

	drv, err := sim.New(stepper, det, cfg.Budget(), logger)
	if err != nil {
		return nil, nil, err
	}
	drift := metrics.NewEnergyDrift()
	drv.AddMetric(drift)
	drv.AddMetric(metrics.NewEnergy())
	drv.AddMetric(metrics.NewApproach(nearContact))
	return drv, drift, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if store && cfg.Sample != "" {
		return errors.New("--store keeps event logs only and cannot be combined with --sample")
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var (
		res     *sim.Result
		drift   *metrics.EnergyDrift
		outName string
	)
	switch {
	case store:
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		res, err = withRun(st, storage.MetadataFromConfig(cfg, preset), logger,
			func(out io.Writer, path string) (*sim.Result, error) {
				outName = path
				r, d, err := simulate(cfg, out, path, logger)
				drift = d
				return r, err
			})
	case cfg.Output != "":
		f, ferr := os.Create(cfg.Output)
		if ferr != nil {
			return ferr
		}
		defer f.Close()
		outName = cfg.Output
		res, drift, err = simulate(cfg, f, outName, logger)
	default:
		res, drift, err = simulate(cfg, os.Stdout, "", logger)
	}

	if res != nil {
		fmt.Fprintln(os.Stderr, viz.Summary(res, drift, outName, err))
	}
	return err
}

// withRun creates a stored run, hands its event log to fn and records
// whatever fn returns, so a run that fails during setup is still closed and
// marked failed.
func withRun(st *storage.Store, meta storage.RunMetadata, logger *zap.Logger,
	fn func(out io.Writer, path string) (*sim.Result, error)) (*sim.Result, error) {
	run, err := st.Create(meta)
	if err != nil {
		return nil, err
	}
	logger.Info("storing run", zap.String("run_id", run.ID()))

	res, err := fn(run.Events(), run.EventsPath())
	if ferr := run.Finish(res, err); ferr != nil {
		logger.Error("saving run metadata", zap.String("run_id", run.ID()), zap.Error(ferr))
	}
	return res, err
}

// simulate runs cfg and writes its output to out: the event log, or the
// samples or their spectrum in sample mode. outName is empty for stdout.
// The result is nil only when the run could not start.
func simulate(cfg config.Config, out io.Writer, outName string, logger *zap.Logger) (*sim.Result, *metrics.EnergyDrift, error) {
	buf := bufio.NewWriter(out)
	var (
		sink    event.Sink = event.Discard{}
		csv     *event.CSVWriter
		sampler *analysis.Sampler
		err     error
	)
	if cfg.Sample == "" {
		if csv, err = event.NewCSVWriter(buf); err != nil {
			return nil, nil, err
		}
		sink = csv
	} else if sampler, err = analysis.NewSampler(cfg.Sample); err != nil {
		return nil, nil, err
	}

	drv, drift, err := newDriver(cfg, sink, logger)
	if err != nil {
		return nil, nil, err
	}
	if sampler != nil {
		logger.Debug("sampling every step", zap.Stringer("signal", sampler.Signal()), zap.Bool("fft", cfg.FFT))
		drv.AddObserver(sampler)
	}
	if outName != "" && sampler == nil {
		drv.OnProgress(viz.NewProgressPrinter(os.Stderr, cfg.Budget().NumEvents).Update)
	}

	res, runErr := drv.Run()
	if outName != "" && sampler == nil {
		fmt.Fprintln(os.Stderr)
	}

	// Records written before a failure are still flushed.
	outErr := writeOutput(buf, csv, sampler, cfg.FFT)
	if runErr != nil {
		return res, drift, runErr
	}
	return res, drift, outErr
}

// writeOutput flushes whatever the run produced: the event log, the raw
// samples, or their spectrum.
func writeOutput(buf *bufio.Writer, csv *event.CSVWriter, sampler *analysis.Sampler, fft bool) error {
	switch {
	case csv != nil:
		if err := csv.Flush(); err != nil {
			return err
		}
	case fft:
		ps := analysis.PowerSpectrum(sampler.Values())
		if err := analysis.WriteSpectrum(buf, ps, sampler.Len(), sampler.MeanStep()); err != nil {
			return err
		}
	default:
		if _, err := sampler.WriteTo(buf); err != nil {
			return err
		}
	}
	return buf.Flush()
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// Only errors may draw over the UI.
	cfg.Logger.Level = "error"
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var sink event.Sink = event.Discard{}
	var csv *event.CSVWriter
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		if csv, err = event.NewCSVWriter(f); err != nil {
			return err
		}
		sink = csv
	}

	drv, _, err := newDriver(cfg, sink, logger)
	if err != nil {
		return err
	}
	runErr := viz.RunInteractive(drv)
	if csv != nil {
		if err := csv.Flush(); err != nil && runErr == nil {
			runErr = err
		}
	}
	return runErr
}
