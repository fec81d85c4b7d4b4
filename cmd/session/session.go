package session

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankurdental/dentaldesk/cmd/cmdutil"
)

var errBadCredentials = errors.New("invalid email or password")

// NewSessionCommand manages the desk session: the single logged-in user
// persisted in the store and shared by every CLI invocation.
func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Log the desk in and out",
	}

	cmd.AddCommand(newLoginCommand())
	cmd.AddCommand(newLogoutCommand())
	cmd.AddCommand(newWhoamiCommand())

	return cmd
}

func newLoginCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin or patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			sessions := env.Sessions()
			ok, err := sessions.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if !ok {
				return errBadCredentials
			}
			u, err := sessions.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", u.Email, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the desk session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Sessions().Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in desk user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer env.Close()

			u, err := env.DeskUser(cmd.Context(), false)
			if err != nil {
				return err
			}

			t := cmdutil.NewTable(cmd.OutOrStdout(), "ID", "Email", "Role", "Patient")
			t.Append([]string{u.ID, u.Email, string(u.Role), u.PatientID})
			t.Render()
			return nil
		},
	}
}
