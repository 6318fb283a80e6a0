package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and modify the shopping cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		if err := a.cart.Fetch(); err != nil {
			return err
		}
		items := a.cart.Items()
		if len(items) == 0 {
			fmt.Println("Cart is empty.")
			return nil
		}
		for _, item := range items {
			name := "(unknown product)"
			price := 0.0
			if item.Product != nil {
				name = item.Product.Name
				price = item.Product.UnitPrice()
			}
			fmt.Printf("#%d  %s  x%d  @%.2f\n", item.ID, name, item.Quantity, price)
		}
		fmt.Printf("Items: %d  Total: %s\n", a.cart.Count(), a.cart.Total())
		return nil
	},
}

var addQuantity int

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		productID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		if err := a.cart.Add(productID, addQuantity); err != nil {
			return err
		}
		fmt.Printf("Added. Items: %d  Total: %s\n", a.cart.Count(), a.cart.Total())
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <item-id>",
	Short: "Remove a line item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		if err := a.cart.Fetch(); err != nil {
			return err
		}
		if err := a.cart.Remove(id); err != nil {
			return err
		}
		fmt.Printf("Removed. Items: %d  Total: %s\n", a.cart.Count(), a.cart.Total())
		return nil
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set <item-id> <quantity>",
	Short: "Set a line item's quantity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[0])
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil || qty < 0 {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		if err := a.cart.Fetch(); err != nil {
			return err
		}
		if err := a.cart.SetQuantity(id, qty); err != nil {
			return err
		}
		fmt.Printf("Updated. Items: %d  Total: %s\n", a.cart.Count(), a.cart.Total())
		return nil
	},
}

func init() {
	cartAddCmd.Flags().IntVar(&addQuantity, "quantity", 1, "quantity to add")
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartSetCmd)
	rootCmd.AddCommand(cartCmd)
}
