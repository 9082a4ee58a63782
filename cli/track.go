package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/raxitsanghani/grill-food-web-sub000/reconcile"
	"github.com/raxitsanghani/grill-food-web-sub000/utils"
	"github.com/spf13/cobra"
)

type TrackOptions struct {
	*RootOptions
	URL    string
	Phone  string
	Infer  string
	Resync time.Duration
}

func NewTrackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrackOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Follow orders live from the Customer Service",
		Long: `Loads the orders of one customer, subscribes to the push channel and
reprints the list whenever something changes.

Example:
  grill track --phone 9990001111
  grill track --url http://localhost:5000 --infer elapsed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := reconcile.ParseInferMode(opts.Infer)
			if !ok {
				return fmt.Errorf("invalid --infer %q: must be none or elapsed", opts.Infer)
			}
			baseURL := opts.URL
			if baseURL == "" {
				baseURL = opts.Config.Bridge.CustomerURL
			}

			s := reconcile.NewSyncer(baseURL, opts.Phone)
			s.ResyncInterval = opts.Resync
			out := cmd.OutOrStdout()
			s.OnChange = func(reason string) {
				printOrders(out, s.Orders, mode, reason)
			}

			utils.InfoLogger.WithField("url", baseURL).Info("tracking orders")
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return s.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "", "Customer Service base URL (default from config)")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "only follow orders of this phone number")
	cmd.Flags().StringVar(&opts.Infer, "infer", "none", "status display mode (none|elapsed)")
	cmd.Flags().DurationVar(&opts.Resync, "resync", reconcile.DefaultResyncInterval, "full re-sync interval")
	return cmd
}

func printOrders(w io.Writer, book *reconcile.OrderBook, mode reconcile.InferMode, reason string) {
	now := time.Now()
	fmt.Fprintf(w, "\n[%s] %s\n", now.Format(time.TimeOnly), reason)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tCUSTOMER\tTOTAL\tSTATUS\tNOTES")
	for _, o := range book.Items() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.CustomerName, utils.FormatCurrencyINR(o.Total), reconcile.DisplayStatus(o, mode, now), o.AdminNotes)
	}
	_ = tw.Flush()
}
