package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storeadmin",
	Short: "storeadmin — admin CLI for the webStore backend",
	Long: "storeadmin is the staff dashboard for the webStore e-commerce backend:\n" +
		"authenticate, inspect sales, and manage products, categories, and orders.",
	SilenceUsage: true,
}

func init() {
	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)

	// Resources
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(ordersCmd)

	// Overview
	rootCmd.AddCommand(dashboardCmd)

	// Local development backend
	rootCmd.AddCommand(mockCmd)
}
