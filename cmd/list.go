package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	m "rezip.dev/pkg/rezip/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [archives...]",
		Short: "List the archives a repack run would process",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			archives, err := locator.Resolve(
				parsePaths(args),
				m.Path(viper.GetString(rootConfigKey)),
				viper.GetString(patternConfigKey),
			)
			if err != nil {
				return err
			}

			var tableBuffer bytes.Buffer

			table := tablewriter.NewWriter(&tableBuffer)
			table.SetHeader([]string{"Archive", "Source", "Entries"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

			totalEntries := 0

			for _, archive := range archives {
				source := "discovered"
				if archive.Explicit {
					source = "explicit"
				}

				count, err := zipInspector.CountEntries(archive.Target)
				if err != nil {
					table.Append([]string{string(archive.Target), source, "unreadable"})
					continue
				}

				totalEntries += count

				table.Append([]string{string(archive.Target), source, fmt.Sprintf("%d", count)})
			}

			table.SetFooter([]string{
				fmt.Sprintf("Total Archives %d", len(archives)),
				"",
				fmt.Sprintf("%d", totalEntries),
			})

			table.Render()

			cmd.Printf("\n%s", tableBuffer.String())

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
