package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storeadmin/app/models"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and manage orders",
}

var (
	orderSearch string
	orderStatus string
	orderPage   int
	orderSize   int
	orderSort   string
)

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		oc := a.orders
		oc.SetPageSize(orderSize)
		oc.SetSort(orderSort)
		oc.SetPage(orderPage)
		oc.SetSearch(orderSearch)
		oc.SetStatus(orAll(orderStatus))

		if err := oc.Load(cmd.Context()); err != nil {
			return err
		}

		w := table()
		fmt.Fprintln(w, "ORDER\tSTATUS\tDATE\tTIME\tCUSTOMER\tITEMS\tTOTAL")
		for _, o := range oc.Visible() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				o.OrderID, o.Status, o.Date, o.Time, o.CustomerInfo.Name, len(o.Items), o.Total)
		}
		w.Flush()
		fmt.Printf("page %d/%d (%d orders)\n", oc.Page()+1, oc.TotalPages(), oc.TotalElements())
		return nil
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order with its line items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		o, err := a.orderSvc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s  %s %s\n", o.OrderID, o.Status, o.Date, o.Time)
		fmt.Printf("customer: %s", o.CustomerInfo.Name)
		if o.CustomerInfo.Email != "" {
			fmt.Printf(" <%s>", o.CustomerInfo.Email)
		}
		if o.CustomerInfo.Phone != "" {
			fmt.Printf(" %s", o.CustomerInfo.Phone)
		}
		fmt.Println()
		if o.CustomerInfo.Address != "" {
			fmt.Printf("address: %s\n", o.CustomerInfo.Address)
		}

		w := table()
		fmt.Fprintln(w, "PRODUCT\tQTY\tUNIT PRICE")
		for _, item := range o.Items {
			fmt.Fprintf(w, "%s\t%d\t%.2f\n", item.ProductName, item.Quantity, item.Price)
		}
		w.Flush()
		fmt.Printf("total: %s\n", o.Total)
		return nil
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <order-id> <status>",
	Short: "Change an order's status",
	Long:  "Statuses: " + joinStatuses(models.OrderStatuses),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.orders.ChangeStatus(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("status updated")
		return nil
	},
}

var ordersDeleteCmd = &cobra.Command{
	Use:   "delete <order-id>",
	Short: "Delete an order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		if err := a.orders.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("order deleted")
		return nil
	},
}

func init() {
	ordersListCmd.Flags().StringVar(&orderSearch, "search", "", "substring match on order id or customer name")
	ordersListCmd.Flags().StringVar(&orderStatus, "status", "", "status filter")
	ordersListCmd.Flags().IntVar(&orderPage, "page", 0, "zero-based page")
	ordersListCmd.Flags().IntVar(&orderSize, "size", 0, "page size (default from config)")
	ordersListCmd.Flags().StringVar(&orderSort, "sort", "", `sort key, e.g. "id,desc"`)

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersShowCmd)
	ordersCmd.AddCommand(ordersStatusCmd)
	ordersCmd.AddCommand(ordersDeleteCmd)
}
