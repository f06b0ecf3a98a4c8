package cli

import (
	"github.com/spf13/cobra"

	"storefront-cart/internal/config"
)

// RootOptions holds flags shared by every command.
type RootOptions struct {
	APIBaseURL string
	CartDBPath string
	Verbose    bool
}

// NewRootCommand builds the storefront CLI, a headless client driving the
// cart engine against a running cart API.
func NewRootCommand() *cobra.Command {
	cfg := config.FromEnv()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Headless storefront cart client",
		Long:          "Drives the guest cart, login merge and authenticated cart against a cart API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.APIBaseURL, "api", cfg.APIBaseURL, "cart API base URL")
	cmd.PersistentFlags().StringVar(&opts.CartDBPath, "cart-db", cfg.CartDBPath, "path to the local cart database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log engine activity")

	cmd.AddCommand(
		NewCountCommand(opts),
		NewAddCommand(opts),
		NewUpdateCommand(opts),
		NewRemoveCommand(opts),
		NewLoginCommand(opts),
		NewLogoutCommand(opts),
	)

	return cmd
}
