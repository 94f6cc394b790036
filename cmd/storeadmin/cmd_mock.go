package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storeadmin/config"
	"github.com/shashiranjanraj/storeadmin/internal/mockstore"
	"github.com/shashiranjanraj/storeadmin/pkg/logger"
)

var mockSeed bool

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run the in-memory mock backend locally",
	Long: "Serves the webStore REST contract from memory for development and demos.\n" +
		"Login with " + mockstore.AdminEmail + " / " + mockstore.AdminPassword + ".",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mockstore.New(config.MockSecret())
		if mockSeed {
			srv.SeedDemo()
		}

		addr := ":" + config.MockPort()
		logger.Info("mock backend listening", "addr", addr, "seeded", mockSeed)
		fmt.Printf("mock webStore backend on http://localhost%s (admin: %s / %s)\n",
			addr, mockstore.AdminEmail, mockstore.AdminPassword)

		server := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		return server.ListenAndServe()
	},
}

func init() {
	mockCmd.Flags().BoolVar(&mockSeed, "seed", true, "seed demo catalogue and orders")
}
