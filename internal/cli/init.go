package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crudkit/internal/inventory"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize crudkit storage",
		Long:  "Create the configuration and data directories, then initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := inventory.Open(a.config, a.logger)
			if err != nil {
				return sysError(fmt.Errorf("initialize storage: %w", err))
			}
			if err := inv.Close(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "crudkit initialized (%s backend, data in %s)\n", a.config.Backend, a.config.DataDir)
			return nil
		},
	}
}
