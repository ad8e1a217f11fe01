// Package cmd provides the root command and CLI setup for rezip.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"rezip.dev/pkg/rezip/internal/adapter"
	"rezip.dev/pkg/rezip/internal/domain"
	m "rezip.dev/pkg/rezip/internal/model"
)

var fsAdapter adapter.ArchiveFS
var zipInspector adapter.ZipInspector
var reportStore adapter.ReportStore
var locator domain.Locator

// reportOutputFlag is a root-level flag shared by commands that write run
// reports.
var reportOutputFlag string

// scratchDirFlag overrides the scratch root for the run.
var scratchDirFlag string

// discoverRootFlag and discoverPatternFlag drive archive discovery for the
// commands that resolve archive sets.
var discoverRootFlag string
var discoverPatternFlag string

// verboseFlag switches file logging to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalArchiveFS()
	zipInspector = adapter.NewLocalZipInspector()
	reportStore = adapter.NewYAMLReportStore()
	locator = domain.NewLocator(fsAdapter)
}

const discoveryHelp = `Archives can be given explicitly as arguments, discovered with
--root/--pattern, or both. Discovery never processes a path twice:
  - rezip repack dist/app.zip             explicit path only
  - rezip repack --root dist              also scan dist for *.zip
  - rezip repack a.zip --root . -P '*.jar' mix explicit and discovered`

const rootLongDescription = `Rezip rewrites already-built zip archives so that identical logical
contents produce byte-identical archives across runs, machines and time.
Entry timestamps are pinned, entries are sorted, and directory placeholder
entries are dropped, so artifact content hashes only change when file
contents change.

` + discoveryHelp

const repackLongDescription = `Repack the given archives in place, committing each rebuilt archive with
an atomic swap.

` + discoveryHelp

const listLongDescription = `Resolve the archive set and print it with per-archive entry counts,
without modifying anything.

` + discoveryHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rezip",
		Short: "Deterministic zip repackaging tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportOutputFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"write a YAML run report to this path",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&scratchDirFlag, scratchFlagName, viper.GetString(scratchConfigKey), "working directory for extraction and rebuild")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(scratchFlagName), scratchConfigKey)

	cmd.PersistentFlags().StringVarP(&discoverRootFlag, rootFlagName, "r", viper.GetString(rootConfigKey), "directory to scan for additional archives")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rootFlagName), rootConfigKey)

	cmd.PersistentFlags().StringVarP(&discoverPatternFlag, patternFlagName, "P", viper.GetString(patternConfigKey), "glob matched against file names during discovery")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(patternFlagName), patternConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}
