package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the store summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		stats, err := a.dashboard.Stats(cmd.Context())
		if err != nil {
			return err
		}

		w := table()
		fmt.Fprintf(w, "products\t%d\n", stats.ProductCount)
		fmt.Fprintf(w, "categories\t%d\n", stats.CategoryCount)
		fmt.Fprintf(w, "total stock\t%d\n", stats.TotalStock)
		fmt.Fprintf(w, "out of stock\t%d\n", stats.OutOfStock)
		fmt.Fprintf(w, "on promo\t%d\n", stats.OnPromo)
		fmt.Fprintf(w, "orders\t%d\n", stats.OrderCount)
		fmt.Fprintf(w, "pending (latest page)\t%d\n", stats.PendingOrders)
		w.Flush()
		return nil
	},
}
