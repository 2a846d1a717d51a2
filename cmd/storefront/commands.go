package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"storefront/internal/app"
	"storefront/internal/domain"

	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List the product catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(_ context.Context, s *app.Store) error {
				snap := s.Snapshot()
				if len(snap.Products) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
					return nil
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tDESCRIPTION")
				for _, p := range snap.Products {
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\n", p.ID, p.Name, p.Price, p.Stock, p.ShortDesc)
				}
				return w.Flush()
			})
		},
	}
}

func newLoginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *app.Store) error {
				ok, err := s.Authenticate(ctx, args[0], password)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("login failed, please try again")
				}
				snap := s.Snapshot()
				role := "customer"
				if snap.Session.IsAdmin() {
					role = "admin"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s).\n", snap.Session.Email, role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(ctx context.Context, s *app.Store) error {
				if err := s.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			})
		},
	}
}

func newCartCmd() *cobra.Command {
	cart := &cobra.Command{
		Use:   "cart",
		Short: "Show and manage the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(_ context.Context, s *app.Store) error {
				printCart(cmd, s)
				return nil
			})
		},
	}
	cart.AddCommand(newCartAddCmd(), newCartRemoveCmd(), newCartClearCmd())
	return cart
}

func newCartAddCmd() *cobra.Command {
	var qty int
	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *app.Store) error {
				product, ok := findProduct(s, args[0])
				if !ok {
					return fmt.Errorf("unknown product %q", args[0])
				}
				if err := s.AddToCart(ctx, product, qty); err != nil {
					return err
				}
				printCart(cmd, s)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&qty, "qty", "n", 1, "quantity to add")
	return cmd
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, s *app.Store) error {
				if err := s.RemoveFromCart(ctx, args[0]); err != nil {
					return err
				}
				printCart(cmd, s)
				return nil
			})
		},
	}
}

func newCartClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(ctx context.Context, s *app.Store) error {
				if err := s.ClearCart(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
				return nil
			})
		},
	}
}

func newAddProductCmd() *cobra.Command {
	var draft domain.Product
	cmd := &cobra.Command{
		Use:   "add-product",
		Short: "Create a new product (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(ctx context.Context, s *app.Store) error {
				created, err := s.AddProduct(ctx, draft)
				if errors.Is(err, app.ErrValidation) {
					return errors.New("please enter name and price")
				}
				if errors.Is(err, app.ErrPermission) {
					return errors.New("only an administrator can add products")
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Product created successfully (id %s).\n", created.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "product name")
	cmd.Flags().Float64Var(&draft.Price, "price", 0, "unit price")
	cmd.Flags().IntVar(&draft.Stock, "stock", 0, "initial stock")
	cmd.Flags().StringVar(&draft.ShortDesc, "short-desc", "", "short description")
	cmd.Flags().StringVar(&draft.Description, "description", "", "full description")
	return cmd
}

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout",
		Short: "Commit the cart: decrement stock and empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(func(ctx context.Context, s *app.Store) error {
				total := s.CartTotal()
				err := s.Checkout(ctx)
				if errors.Is(err, app.ErrAuthRequired) {
					return errors.New("please log in to check out")
				}
				if errors.Is(err, app.ErrRemoteWrite) {
					fmt.Fprintf(os.Stderr, "warning: some stock updates failed: %v\n", err)
					fmt.Fprintf(cmd.OutOrStdout(), "Checkout complete (total %.2f).\n", total)
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checkout complete (total %.2f).\n", total)
				return nil
			})
		},
	}
}

func findProduct(s *app.Store, id string) (domain.Product, bool) {
	for _, p := range s.Snapshot().Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func printCart(cmd *cobra.Command, s *app.Store) {
	snap := s.Snapshot()
	if snap.Cart.Count() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Cart is empty.")
		return
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tUNIT\tLINE TOTAL")
	for id, line := range snap.Cart {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%.2f\n",
			id, line.Product.Name, line.Quantity, line.Product.Price,
			line.Product.Price*float64(line.Quantity))
	}
	fmt.Fprintf(w, "\t\t\tTOTAL\t%.2f\n", snap.Cart.Total())
	_ = w.Flush()
}
