package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront-cart/internal/session"
)

// NewLoginCommand authenticates and merges the guest cart into the account
// cart.
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Log in and merge the guest cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			res, err := eng.gateway.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			eng.bridge.Notify(cmd.Context(), session.Event{
				Kind:   session.EventLogin,
				UserID: res.UserID,
				Role:   res.Role,
				Token:  res.Token,
			})
			if !eng.store.SaveSession(res.UserID, res.Role, res.Token) {
				eng.logger.Printf("session not persisted; next launch starts anonymous")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s, cart count %d\n", res.UserID, eng.rec.View().Count)
			return nil
		},
	}
}

// NewLogoutCommand drops the authenticated session.
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and return to the guest cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			eng.bridge.Notify(cmd.Context(), session.Event{Kind: session.EventLogout})
			eng.store.ClearSession()

			fmt.Fprintf(cmd.OutOrStdout(), "logged out, guest cart count %d\n", eng.rec.View().Count)
			return nil
		},
	}
}
