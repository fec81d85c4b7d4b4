package incident

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/incident"
)

func NewIncidentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "incident",
		Short: "Inspect incidents (admin)",
	}

	cmd.AddCommand(newListCommand())

	return cmd
}

func newListCommand() *cobra.Command {
	var (
		patientID string
		status    string
		search    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List incidents",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := domain.Status(status)
			if status != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q (want one of %s)", status, statusNames())
			}

			env, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if _, err := env.DeskUser(cmd.Context(), true); err != nil {
				return err
			}

			svc := incident.New(env.Store, nil, 0)
			incidents, err := svc.List(cmd.Context(), incident.ListRequest{
				PatientID: patientID,
				Status:    st,
				Search:    search,
			})
			if err != nil {
				return err
			}

			t := cmdutil.NewTable(cmd.OutOrStdout(), "ID", "Patient", "Title", "Appointment", "Status", "Cost", "Files")
			for _, i := range incidents {
				t.Append([]string{
					i.ID, i.PatientID, i.Title, i.AppointmentDate.String(),
					string(i.Status), cmdutil.Money(i.Cost), fmt.Sprint(len(i.Files)),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "Only incidents of this patient id")
	cmd.Flags().StringVar(&status, "status", "", "Pending, Completed or Cancelled")
	cmd.Flags().StringVar(&search, "search", "", "Filter by title or patient name")

	return cmd
}

func statusNames() string {
	names := make([]string, len(domain.Statuses))
	for i, s := range domain.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
