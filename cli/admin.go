package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/raxitsanghani/grill-food-web-sub000/router"
	"github.com/raxitsanghani/grill-food-web-sub000/services"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/spf13/cobra"
)

type AdminOptions struct {
	*RootOptions
	Addr string
}

func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Run the Admin Service",
		Long: `Serves the staff API: menu, orders, riders, chefs, table bookings and the
dashboard, behind a bearer token. Changes are forwarded to the Customer
Service.

Example:
  grill admin --addr :5001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config
			if opts.Addr != "" {
				cfg.Server.AdminAddr = opts.Addr
			}

			svc, err := newService(cfg, "admin", "customer", cfg.Bridge.CustomerURL)
			if err != nil {
				return err
			}
			svc.deps.Tokens = utils.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
			svc.deps.Dev = services.DevCredentials{
				Enabled:     cfg.App.DevMode && cfg.IsDevelopment(),
				Email:       cfg.Auth.DevAdminEmail,
				Password:    cfg.Auth.DevAdminPassword,
				SecurityKey: cfg.Auth.DevAdminSecurityKey,
			}
			if cfg.App.DevMode {
				utils.InfoLogger.Warn("development admin login enabled")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return svc.run(ctx, cfg.Server.AdminAddr, router.SetupAdminRouter(svc.deps))
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default from config, :5001)")
	return cmd
}
