package http

import "github.com/spf13/cobra"

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "http",
		Aliases: []string{"serve"},
		Short:   "Run the desk REST API",
	}
	cmd.AddCommand(NewStartCommand())
	return cmd
}
