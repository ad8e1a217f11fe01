package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rezip.dev/pkg/rezip/internal/controller"
	"rezip.dev/pkg/rezip/internal/domain"
	m "rezip.dev/pkg/rezip/internal/model"
)

var repackParallelFlag int

// repackCmd represents the repack command.
var repackCmd = newRepackCmd()

func newRepackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repack [archives...]",
		Short: "Rewrite archives deterministically in place",
		Long:  repackLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))

			engine := domain.NewEngine(
				domain.NewExtractor(fsAdapter),
				domain.NewNormalizer(fsAdapter),
				domain.NewCompressor(fsAdapter),
				domain.NewSwapper(fsAdapter),
				fsAdapter,
				ui,
			)

			archives, err := locator.Resolve(
				parsePaths(args),
				m.Path(viper.GetString(rootConfigKey)),
				viper.GetString(patternConfigKey),
			)
			if err != nil {
				return err
			}

			repackArgs := domain.RepackArgs{
				Archives:   archives,
				ScratchDir: m.Path(viper.GetString(scratchConfigKey)),
				Threads:    viper.GetInt(parallelConfigKey),
				Compress:   domain.DefaultCompressConfig(),
			}

			if err := ui.Start(len(archives), repackArgs.Threads); err != nil {
				return err
			}

			report, runErr := engine.Repack(cmd.Context(), repackArgs)

			if err := ui.DisplaySummary(report); err != nil {
				return err
			}

			if reportPath := viper.GetString(outputFlagName); reportPath != "" {
				if err := reportStore.SaveReport(m.Path(reportPath), report); err != nil {
					return err
				}
			}

			if runErr != nil {
				return fmt.Errorf("run aborted: %w", runErr)
			}

			if failed := report.FailedCount(); failed > 0 {
				return fmt.Errorf("%d archive(s) not normalized", failed)
			}

			return nil
		},
	}

	configureRepackFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(repackCmd)
}

func configureRepackFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&repackParallelFlag, parallelFlagName, "p", viper.GetInt(parallelConfigKey), "number of parallel repack workers")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), parallelConfigKey)
}
