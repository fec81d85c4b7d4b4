package system

import "github.com/spf13/cobra"

// NewSystemCommand groups commands that act on the whole data store rather
// than on one record.
func NewSystemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "system",
		Short: "Seed, reset and migrate the data store",
	}
	cmd.AddCommand(
		NewInitCommand(),
		NewResetCommand(),
		NewMigrateCommand(),
		NewGenDocsCommand(),
	)
	return cmd
}
