package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/crudkit/internal/httpapi"
	"github.com/mesh-intelligence/crudkit/internal/inventory"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		listen string
		ops    string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the items resource over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mask, err := httpapi.ParseOps(ops)
			if err != nil {
				return userError(err)
			}
			if listen == "" {
				listen = a.config.Listen
			}

			inv, err := inventory.Open(a.config, a.logger)
			if err != nil {
				return sysError(err)
			}
			defer inv.Close()

			handler := httpapi.NewRouter(a.config.APIVersions, a.logger, itemResource(inv, mask))

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return sysError(fmt.Errorf("listen on %s: %w", listen, err))
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := httpapi.Serve(ctx, ln, handler, a.logger); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config.yaml)")
	cmd.Flags().StringVar(&ops, "ops", httpapi.OpsAll.String(), "operation groups to expose, letters of \"crud\"")
	return cmd
}

func itemResource(inv *inventory.Inventory, ops httpapi.Ops) httpapi.Resource[int64, inventory.ItemDTO, inventory.ItemDTO] {
	return httpapi.Resource[int64, inventory.ItemDTO, inventory.ItemDTO]{
		Path:       inventory.Resource,
		Controller: inv.Items,
		ParseID:    httpapi.ParseInt64,
		NewPatch:   func() any { return &inventory.ItemPatch{} },
		Ops:        ops,
	}
}
