package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shashiranjanraj/storeadmin/app/controllers"
	"github.com/shashiranjanraj/storeadmin/app/services"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
	"github.com/shashiranjanraj/storeadmin/pkg/cache"
	"github.com/shashiranjanraj/storeadmin/pkg/logger"
	"github.com/shashiranjanraj/storeadmin/pkg/session"
)

// app wires the client stack together for one CLI invocation.
type app struct {
	store session.Store

	auth       *services.AuthService
	products   *controllers.ProductsController
	categories *controllers.CategoriesController
	orders     *controllers.OrdersController
	dashboard  *controllers.DashboardController

	productSvc  *services.ProductService
	categorySvc *services.CategoryService
	orderSvc    *services.OrderService
}

// newApp builds the stack from configuration. A missing API_BASE_URL is a
// startup misconfiguration and aborts here.
func newApp() (*app, error) {
	store := session.Default()

	client, err := api.FromConfig(store)
	if err != nil {
		return nil, err
	}

	// An expired token is only discovered when the backend rejects a call.
	// Clear the dead session and tell the user instead of failing silently
	// on every subsequent command.
	client.OnUnauthorized = func(status int, path string) {
		logger.Warn("session rejected by backend, clearing it", "status", status, "path", path)
		fmt.Fprintln(os.Stderr, "session expired or invalid — run `storeadmin login` again")
		_ = store.Clear()
	}

	productSvc := services.NewProductService(client)
	categorySvc := services.NewCategoryService(client)
	orderSvc := services.NewOrderService(client)

	c := cache.FromConfig()

	return &app{
		store:       store,
		auth:        services.NewAuthService(client, store),
		products:    controllers.NewProductsController(productSvc, categorySvc, c),
		categories:  controllers.NewCategoriesController(categorySvc, c),
		orders:      controllers.NewOrdersController(orderSvc, c),
		dashboard:   controllers.NewDashboardController(productSvc, categorySvc, orderSvc),
		productSvc:  productSvc,
		categorySvc: categorySvc,
		orderSvc:    orderSvc,
	}, nil
}

// table returns a tabwriter on stdout for aligned listings.
func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
