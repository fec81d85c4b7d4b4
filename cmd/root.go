package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dashboardcmd "github.com/ankurdental/dentaldesk/cmd/dashboard"
	httpcmd "github.com/ankurdental/dentaldesk/cmd/http"
	incidentcmd "github.com/ankurdental/dentaldesk/cmd/incident"
	patientcmd "github.com/ankurdental/dentaldesk/cmd/patient"
	sessioncmd "github.com/ankurdental/dentaldesk/cmd/session"
	systemcmd "github.com/ankurdental/dentaldesk/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "dentaldesk",
	Short: "Front desk for a dental clinic: patients, appointments and treatment records.",
	Long: `dentaldesk keeps a clinic's patients and their incidents (appointments and
treatment records) in a small key-value store, and serves them to admins and
patients over an HTTP API or straight from the command line.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(sessioncmd.NewSessionCommand())
	rootCmd.AddCommand(patientcmd.NewPatientCommand())
	rootCmd.AddCommand(incidentcmd.NewIncidentCommand())
	rootCmd.AddCommand(dashboardcmd.NewDashboardCommand())
}
