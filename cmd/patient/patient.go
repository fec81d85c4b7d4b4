package patient

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
	"github.com/ankurdental/dentaldesk/internal/service/patient"
	"github.com/ankurdental/dentaldesk/pkg/clock"
)

func NewPatientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Inspect and remove patients (admin)",
	}

	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newDeleteCommand())

	return cmd
}

func newListCommand() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if _, err := env.DeskUser(cmd.Context(), true); err != nil {
				return err
			}

			svc := patient.New(env.Store, nil, clock.Real(), env.Cfg.Clinic.DefaultRegion, nil)
			patients, err := svc.List(cmd.Context(), patient.ListRequest{Search: search})
			if err != nil {
				return err
			}

			now := clock.Real().Now()
			t := cmdutil.NewTable(cmd.OutOrStdout(), "ID", "Name", "DOB", "Age", "Contact")
			for _, p := range patients {
				t.Append([]string{p.ID, p.Name, p.DOB.String(), strconv.Itoa(p.AgeAt(now)), p.Contact})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Filter by name or contact")

	return cmd
}

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient and all of their incidents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if _, err := env.DeskUser(cmd.Context(), true); err != nil {
				return err
			}

			svc := patient.New(env.Store, nil, clock.Real(), env.Cfg.Clinic.DefaultRegion, nil)
			if err := svc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted patient %s\n", args[0])
			return nil
		},
	}
}
