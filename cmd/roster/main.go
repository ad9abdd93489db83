// Command roster builds shift-assignment models and solves them from the
// console. Subcommands share the roster flags; see `roster --help`.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	opts    options
	verbose bool
	limit   int

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Build and solve weekly shift rosters",
	Long: `roster turns a staffing description into a constraint model and searches
for assignments of employees to shifts.

The roster comes from --file (YAML) or from the flags:
  roster solve --shifts 4 --days 7 --category full_time --category part_time ...

Employee categories and their hour rules default to the ROSTER_* environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts.hasCount = cmd.Flags().Changed("employees")
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Find one schedule",
	Args:  cobra.NoArgs,
	RunE:  runSolve,
}

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "List up to --limit distinct schedules",
	Long: `Streams distinct schedules as the solver finds them. A limit of 0 lists
every schedule, which can take a long time on anything but tiny rosters.`,
	Args: cobra.NoArgs,
	RunE: runEnumerate,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Describe the model without solving it",
	Args:  cobra.NoArgs,
	RunE:  runInspect,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&opts.file, "file", "f", "", "roster YAML file")
	flags.IntVar(&opts.employees, "employees", 0, "employee count (defaults to the number of --category flags)")
	flags.IntVar(&opts.shifts, "shifts", 4, "shifts per day")
	flags.IntVar(&opts.days, "days", 7, "days in the horizon")
	flags.StringArrayVar(&opts.categories, "category", nil, "category of the next employee (repeatable)")
	flags.StringArrayVar(&opts.additions, "add", nil, "employee to add after the model is built (repeatable)")
	flags.StringVar(&opts.policy, "policy", "", "extension policy: optional or rebuild")

	enumerateCmd.Flags().IntVarP(&limit, "limit", "k", 3, "maximum number of schedules")

	rootCmd.AddCommand(solveCmd, enumerateCmd, inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
