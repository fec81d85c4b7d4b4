package system

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Hash passwords that older stores kept in plaintext",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.OpenUnseeded(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			n, err := env.Sessions().MigratePasswords(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to migrate passwords: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rehashed %d password(s).\n", n)
			return nil
		},
	}

	return cmd
}
