package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/magphyx/internal/config"
)

var (
	dataDir    string
	configFile string
	preset     string
	store      bool

	// plot
	column    string
	eventType string
	width     int
	height    int

	// svg
	svgOut  string
	svgSize int

	// sweep
	workers int

	// config
	configOut string
	defaults  bool
)

// main builds the command tree and exits with status 1 on any error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "magphyx",
		Short:        "two-magnet dynamics with event logging",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "run storage directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and log its events",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&store, "store", false, "save the run under the data directory")

	interactiveCmd := &cobra.Command{
		Use:   "interactive",
		Short: "advance the simulation one iteration per key press",
		Args:  cobra.NoArgs,
		RunE:  runInteractive,
	}
	addRunFlags(interactiveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a column of a stored event log",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "r", "column to plot")
	plotCmd.Flags().StringVar(&eventType, "event", "", "only rows of this event type, e.g. \"theta = 0\"")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run and its events as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "draw a stored run's trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVar(&eventType, "event", "", "only rows of this event type")
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "write the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  writeConfig,
	}
	addRunFlags(configCmd)
	configCmd.Flags().StringVarP(&configOut, "write", "w", "", "file to write (default stdout)")
	configCmd.Flags().BoolVar(&defaults, "defaults", false, "write the built-in defaults and ignore every other source")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]...",
		Short: "run several presets concurrently into storage",
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVar(&workers, "workers", 4, "concurrent runs")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(runCmd, interactiveCmd, listCmd, plotCmd, exportCmd, svgCmd, configCmd, presetsCmd, sweepCmd)
	return rootCmd
}
