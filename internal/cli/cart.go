package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCountCommand reports the authoritative cart count for the current
// session.
func NewCountCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the current cart item count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.rec.Refresh(cmd.Context()); err != nil {
				eng.logger.Printf("count refresh failed, showing last known: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), eng.rec.View().Count)
			return nil
		},
	}
}

// NewAddCommand adds a product to the cart, fetching its snapshot from the
// catalog first.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <productID> [quantity]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity := 1
			if len(args) == 2 {
				q, err := strconv.Atoi(args[1])
				if err != nil || q < 1 {
					return fmt.Errorf("quantity must be a positive integer, got %q", args[1])
				}
				quantity = q
			}

			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			product, err := eng.gateway.FetchProduct(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch product: %w", err)
			}
			if err := eng.rec.AddItem(cmd.Context(), product, quantity); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s x%d, cart count %d\n", product.ID, quantity, eng.rec.View().Count)
			return nil
		},
	}
}

// NewUpdateCommand sets the quantity of an existing line.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <productID> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil || quantity < 1 {
				return fmt.Errorf("quantity must be a positive integer, got %q", args[1])
			}

			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.rec.UpdateQuantity(cmd.Context(), args[0], quantity); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s to x%d, cart count %d\n", args[0], quantity, eng.rec.View().Count)
			return nil
		},
	}
}

// NewRemoveCommand removes a line from the cart.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <productID>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := openEngine(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer eng.Close()

			if err := eng.rec.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s, cart count %d\n", args[0], eng.rec.View().Count)
			return nil
		},
	}
}
