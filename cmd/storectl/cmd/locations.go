package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "Browse shipping governorates and areas",
}

var locationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List governorates and their areas",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.locations.Fetch(); err != nil {
			return err
		}
		for _, gov := range a.locations.Governorates() {
			fmt.Printf("%d  %s\n", gov.ID, gov.Name)
			for _, area := range gov.Areas {
				fmt.Printf("    %d  %s  (shipping %s)\n", area.ID, area.Name, area.ShippingCost)
			}
		}
		return nil
	},
}

var locationsAreaCmd = &cobra.Command{
	Use:   "area <area-id>",
	Short: "Look up one area's shipping cost",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid area id %q", args[0])
		}
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.locations.Fetch(); err != nil {
			return err
		}
		area, ok := a.locations.AreaByID(id)
		if !ok {
			return fmt.Errorf("area %d not found", id)
		}
		fmt.Printf("%s: shipping %s\n", area.Name, area.ShippingCost)
		return nil
	},
}

func init() {
	locationsCmd.AddCommand(locationsListCmd, locationsAreaCmd)
	rootCmd.AddCommand(locationsCmd)
}
