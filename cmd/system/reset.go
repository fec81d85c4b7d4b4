package system

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
)

func NewResetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every key the store owns",
		Long: `Remove the users, patients, incidents and desk session from the store.
The next "system init" (or server start with clinic.seed_on_start) seeds the
sample data again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			env, err := cmdutil.OpenUnseeded(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Store.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("failed to reset store: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Store reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm that all clinic data should be deleted")

	return cmd
}
