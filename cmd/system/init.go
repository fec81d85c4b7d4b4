package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Seed every collection that is missing from the store",
		Long: `Write the sample users, patients and incidents for each collection that is
absent. Collections that already exist, even empty ones, are never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.OpenUnseeded(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			seeded, err := env.Store.Initialize(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize store: %w", err)
			}
			if len(seeded) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Store already initialized.")
				return nil
			}
			for _, k := range seeded {
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s\n", k)
			}
			return nil
		},
	}

	return cmd
}
