package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Read admin dashboard analytics",
}

var chartPeriod string
var topCategory string

func printRaw(raw json.RawMessage) error {
	var buf map[string]any
	if err := json.Unmarshal(raw, &buf); err != nil {
		// Not an object; print as is.
		fmt.Println(string(raw))
		return nil
	}
	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}

var dashboardAnalyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show aggregate store metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		raw, err := a.dashboard.Analytics()
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

var dashboardRevenueCmd = &cobra.Command{
	Use:   "revenue",
	Short: "Show the revenue chart series",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		raw, err := a.dashboard.RevenueChart(chartPeriod)
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

var dashboardOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show the orders chart series",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		raw, err := a.dashboard.OrdersChart(chartPeriod)
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

var dashboardTopCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the top products",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if err := a.requireAuth(); err != nil {
			return err
		}
		raw, err := a.dashboard.TopProducts(topCategory)
		if err != nil {
			return err
		}
		return printRaw(raw)
	},
}

func init() {
	dashboardRevenueCmd.Flags().StringVar(&chartPeriod, "period", "30d", "chart period")
	dashboardOrdersCmd.Flags().StringVar(&chartPeriod, "period", "30d", "chart period")
	dashboardTopCmd.Flags().StringVar(&topCategory, "category", "", "filter by category")
	dashboardCmd.AddCommand(dashboardAnalyticsCmd, dashboardRevenueCmd, dashboardOrdersCmd, dashboardTopCmd)
	rootCmd.AddCommand(dashboardCmd)
}
