package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/raxitsanghani/grill-food-web-sub000/router"
	"github.com/spf13/cobra"
)

type CustomerOptions struct {
	*RootOptions
	Addr string
}

func NewCustomerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CustomerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Run the Customer Service",
		Long: `Serves the public menu, order placement and tracking, table bookings
and the customer push channel. Orders are forwarded to the Admin Service.

Example:
  grill customer --addr :5000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config
			if opts.Addr != "" {
				cfg.Server.CustomerAddr = opts.Addr
			}

			svc, err := newService(cfg, "customer", "admin", cfg.Bridge.AdminURL)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return svc.run(ctx, cfg.Server.CustomerAddr, router.SetupCustomerRouter(svc.deps))
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :5000)")
	return cmd
}
