// Package migrate provides the schema migration command
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/rps-results/internal/app"
)

// Command creates and returns the migrate command
func Command(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the project database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ctx.App()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date: %s\n", a.Store.Path())
			return nil
		},
	}
}
