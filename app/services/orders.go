package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
)

// DefaultOrderSort lists newest orders first.
const DefaultOrderSort = "id,desc"

// OrderService maps the orders resource to HTTP verbs. Orders paginate
// server-side through page/size/sort parameters.
type OrderService struct {
	client *api.Client
}

func NewOrderService(client *api.Client) *OrderService {
	return &OrderService{client: client}
}

// List fetches one page of orders. page is zero-based; sort is a
// "field,direction" pair, defaulted when empty.
func (s *OrderService) List(ctx context.Context, page, size int, sort string) (models.OrderPage, error) {
	if sort == "" {
		sort = DefaultOrderSort
	}

	var result models.OrderPage
	err := s.client.Get("/orders").
		QueryInt("page", page).
		QueryInt("size", size).
		Query("sort", sort).
		Send(ctx, &result)
	return result, err
}

func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := s.client.Get("/orders/%s", id).Send(ctx, &o)
	return o, err
}

// Create registers an order. The dashboard mostly consumes orders placed by
// the storefront; this exists for manual corrections.
func (s *OrderService) Create(ctx context.Context, order models.Order) (models.Order, error) {
	var created models.Order
	err := s.client.Post("/orders").Body(order).Send(ctx, &created)
	return created, err
}

// UpdateStatus patches an order's status via partial update.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (models.Order, error) {
	canonical, ok := canonicalStatus(status, models.OrderStatuses)
	if !ok {
		return models.Order{}, fmt.Errorf("orders: unknown status %q", status)
	}

	var updated models.Order
	err := s.client.Patch("/orders/%s/status", id).
		Body(models.StatusRequest{Status: canonical}).
		Send(ctx, &updated)
	return updated, err
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.client.Delete("/orders/%s", id).Send(ctx, nil)
}
