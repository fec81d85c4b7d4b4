package dashboard

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
	"github.com/ankurdental/dentaldesk/internal/domain"
	"github.com/ankurdental/dentaldesk/internal/service/dashboard"
	"github.com/ankurdental/dentaldesk/pkg/clock"
)

// NewDashboardCommand prints the dashboard of the logged-in desk user: the
// clinic overview for admins, the patient's own records otherwise.
func NewDashboardCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the dashboard for the logged-in desk user",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := domain.Status(status)
			if status != "" && !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}

			env, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			u, err := env.DeskUser(cmd.Context(), false)
			if err != nil {
				return err
			}

			svc := dashboard.New(env.Store, clock.Real())
			out := cmd.OutOrStdout()
			if u.IsAdmin() {
				d, err := svc.Admin(cmd.Context())
				if err != nil {
					return err
				}
				printAdmin(out, d)
				return nil
			}

			d, err := svc.Patient(cmd.Context(), dashboard.PatientRequest{PatientID: u.PatientID, Status: st})
			if err != nil {
				return err
			}
			printPatient(out, d)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Patient view only: narrow the lists to one status")

	return cmd
}

func printAdmin(w io.Writer, d *dashboard.AdminDashboard) {
	t := cmdutil.NewTable(w, "Patients", "Appointments", "Revenue", "Pending revenue", "Pending", "Completed", "Cancelled")
	t.Append([]string{
		strconv.Itoa(d.TotalPatients), strconv.Itoa(d.TotalAppointments),
		fmt.Sprintf("%.2f", d.Revenue), fmt.Sprintf("%.2f", d.PendingRevenue),
		strconv.Itoa(d.Statuses.Pending), strconv.Itoa(d.Statuses.Completed), strconv.Itoa(d.Statuses.Cancelled),
	})
	t.Render()

	fmt.Fprintln(w, "\nUpcoming appointments")
	printIncidents(w, d.Upcoming)

	fmt.Fprintln(w, "\nTop patients")
	t = cmdutil.NewTable(w, "ID", "Name", "Incidents")
	for _, pc := range d.TopPatients {
		t.Append([]string{pc.Patient.ID, pc.Patient.Name, strconv.Itoa(pc.Count)})
	}
	t.Render()
}

func printPatient(w io.Writer, d *dashboard.PatientDashboard) {
	fmt.Fprintf(w, "%s, age %d, %s\n\n", d.Patient.Name, d.Age, d.Patient.Contact)

	t := cmdutil.NewTable(w, "Appointments", "Pending", "Completed", "Cancelled", "Total spent")
	t.Append([]string{
		strconv.Itoa(d.TotalAppointments), strconv.Itoa(d.Statuses.Pending),
		strconv.Itoa(d.Statuses.Completed), strconv.Itoa(d.Statuses.Cancelled),
		fmt.Sprintf("%.2f", d.TotalSpent),
	})
	t.Render()

	if d.NextAppointment != nil {
		fmt.Fprintf(w, "\nNext appointment: %s on %s\n", d.NextAppointment.Title, d.NextAppointment.AppointmentDate)
	}
	fmt.Fprintln(w, "\nUpcoming")
	printIncidents(w, d.Upcoming)
	fmt.Fprintln(w, "\nHistory")
	printIncidents(w, d.Past)
}

func printIncidents(w io.Writer, incidents []domain.Incident) {
	t := cmdutil.NewTable(w, "ID", "Patient", "Title", "Appointment", "Status", "Cost")
	for _, i := range incidents {
		t.Append([]string{i.ID, i.PatientID, i.Title, i.AppointmentDate.String(), string(i.Status), cmdutil.Money(i.Cost)})
	}
	t.Render()
}
