package mockstore

import (
	"fmt"

	"github.com/shashiranjanraj/storeadmin/app/models"
)

// SeedDemo fills the store with a small catalogue so `storeadmin mock`
// serves something to look at. Tests that need precise fixtures create
// their own data through the API instead.
func (s *Server) SeedDemo() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{"Electronics", "Books", "Clothing"} {
		c := &models.Category{ID: s.allocID(), Name: name}
		s.categories[c.ID] = c
	}

	demo := []models.Product{
		{Name: "Wireless Mouse", Category: "Electronics", OriginalPrice: 29.99, Stock: 120, Status: models.ProductAvailable},
		{Name: "Mechanical Keyboard", Category: "Electronics", OriginalPrice: 89.99, Stock: 45, Status: models.ProductAvailable},
		{Name: "USB-C Hub", Category: "Electronics", OriginalPrice: 49.99, Stock: 0, Status: models.ProductOutOfStock},
		{Name: "Go Programming", Category: "Books", OriginalPrice: 39.99, Stock: 80, Status: models.ProductAvailable},
		{Name: "Denim Jacket", Category: "Clothing", OriginalPrice: 79.99, Stock: 12, Status: models.ProductComingSoon},
	}
	for i := range demo {
		p := demo[i]
		p.ID = s.allocID()
		applyDiscount(&p, p.Discount)
		s.products[p.ID] = &p
	}

	for i := 1; i <= 25; i++ {
		o := &models.Order{
			OrderID: fmt.Sprintf("ORD-%04d", i),
			Status:  models.OrderStatuses[i%len(models.OrderStatuses)],
			Date:    "2025-06-15",
			Time:    "14:30",
			CustomerInfo: models.CustomerInfo{
				ID:   int64(i),
				Name: fmt.Sprintf("Customer %d", i),
			},
			Items: []models.OrderItem{
				{ProductName: "Wireless Mouse", Quantity: 1 + i%3, Price: 29.99},
			},
			Total: fmt.Sprintf("%.2f", float64(1+i%3)*29.99),
		}
		s.orders[o.OrderID] = o
	}
}
