package controllers

import (
	"context"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/app/services"
	"github.com/shashiranjanraj/storeadmin/pkg/collection"
)

// Stats is the landing-page summary.
type Stats struct {
	ProductCount  int
	CategoryCount int
	TotalStock    int
	OutOfStock    int
	OnPromo       int
	OrderCount    int64
	PendingOrders int
}

// DashboardController aggregates the summary cards from the other
// resources. It reads through the same services as the list pages but keeps
// no state of its own; every call recomputes from fresh responses.
type DashboardController struct {
	products   *services.ProductService
	categories *services.CategoryService
	orders     *services.OrderService
}

func NewDashboardController(p *services.ProductService, c *services.CategoryService, o *services.OrderService) *DashboardController {
	return &DashboardController{products: p, categories: c, orders: o}
}

// Stats fetches everything the summary needs. Order totals come from the
// pageable envelope of a single first-page request.
func (d *DashboardController) Stats(ctx context.Context) (Stats, error) {
	products, err := d.products.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	categories, err := d.categories.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	page, err := d.orders.List(ctx, 0, 10, services.DefaultOrderSort)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		ProductCount:  len(products),
		CategoryCount: len(categories),
		OrderCount:    page.TotalElements,
	}

	for _, p := range products {
		stats.TotalStock += p.Stock
		if models.StatusEquals(p.Status, models.ProductOutOfStock) {
			stats.OutOfStock++
		}
		if p.Promo {
			stats.OnPromo++
		}
	}

	stats.PendingOrders = len(collection.Filter(page.Content, func(o models.Order) bool {
		return models.StatusEquals(o.Status, models.OrderPending)
	}))

	return stats, nil
}
