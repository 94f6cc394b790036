package controllers

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/app/services"
	"github.com/shashiranjanraj/storeadmin/config"
	"github.com/shashiranjanraj/storeadmin/pkg/cache"
	"github.com/shashiranjanraj/storeadmin/pkg/collection"
)

// OrdersController drives the orders list page. Unlike products, orders
// paginate server-side: every page/size/sort change issues a new list query,
// and a response is applied only if it still matches the current query key —
// a fetch for a page the user has already left is dropped.
type OrdersController struct {
	orders *services.OrderService
	cache  *cache.Cache

	mu sync.Mutex

	search       string
	statusFilter string
	page         int // zero-based, as the backend counts
	size         int
	sort         string

	current models.OrderPage

	lastErr error
}

func NewOrdersController(orders *services.OrderService, c *cache.Cache) *OrdersController {
	return &OrdersController{
		orders:       orders,
		cache:        c,
		statusFilter: FilterAll,
		size:         config.PageSize(),
		sort:         services.DefaultOrderSort,
	}
}

// queryKey identifies one logical list query. Superseding and caching both
// key off it.
func (o *OrdersController) queryKey() string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(o.page))
	params.Set("size", strconv.Itoa(o.size))
	params.Set("sort", o.sort)
	return cache.ListKey("orders", params)
}

// ── Loading ──────────────────────────────────────────────────────────────────

// Load fetches the current page (through the cache). If the page, size, or
// sort changed while the fetch was in flight, the stale result is dropped;
// the load for the new parameters is responsible for the screen.
func (o *OrdersController) Load(ctx context.Context) error {
	o.mu.Lock()
	key := o.queryKey()
	page, size, srt := o.page, o.size, o.sort
	o.mu.Unlock()

	var result models.OrderPage
	cached := o.cache.Get(key, &result)
	if !cached {
		var err error
		result, err = o.orders.List(ctx, page, size, srt)
		if err != nil {
			o.mu.Lock()
			o.lastErr = err
			o.mu.Unlock()
			return err
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if key != o.queryKey() {
		// User moved on while this was in flight.
		return nil
	}
	if !cached {
		_ = o.cache.Set(key, result)
	}
	o.current = result
	o.lastErr = nil
	return nil
}

// refresh invalidates every cached orders page and reloads the current one.
func (o *OrdersController) refresh(ctx context.Context) error {
	_ = o.cache.Forget("orders")
	return o.Load(ctx)
}

// ── Filters and pagination ───────────────────────────────────────────────────

// SetSearch updates the search term. Search filters the fetched page
// client-side, so no refetch happens.
func (o *OrdersController) SetSearch(term string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.search = term
}

// SetStatus sets the status filter (FilterAll clears it).
func (o *OrdersController) SetStatus(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statusFilter = status
}

// SetPage moves to a zero-based page. The caller follows with Load.
func (o *OrdersController) SetPage(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if n < 0 {
		n = 0
	}
	if o.current.TotalPages > 0 && n >= o.current.TotalPages {
		n = o.current.TotalPages - 1
	}
	o.page = n
}

// SetPageSize changes the page size and rewinds to the first page.
func (o *OrdersController) SetPageSize(size int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if size > 0 {
		o.size = size
		o.page = 0
	}
}

// SetSort changes the sort key ("field,direction") and rewinds to the
// first page.
func (o *OrdersController) SetSort(sort string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if sort != "" {
		o.sort = sort
		o.page = 0
	}
}

// Page returns the zero-based current page index.
func (o *OrdersController) Page() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

// TotalPages reports the server's page count for the current size.
func (o *OrdersController) TotalPages() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current.TotalPages
}

// TotalElements reports the server's total order count.
func (o *OrdersController) TotalElements() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current.TotalElements
}

// Visible returns the orders of the current page that match the search term
// and status filter. An order matches the search term when it is a
// case-insensitive substring of the order id or the customer name. The
// predicates are independent, so filter order does not matter.
func (o *OrdersController) Visible() []models.Order {
	o.mu.Lock()
	defer o.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(o.search))

	return collection.Filter(o.current.Content, func(ord models.Order) bool {
		if o.statusFilter != FilterAll && !models.StatusEquals(ord.Status, o.statusFilter) {
			return false
		}
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(ord.OrderID), term) ||
			strings.Contains(strings.ToLower(ord.CustomerInfo.Name), term)
	})
}

// Err returns the last surfaced error, cleared on the next successful load.
func (o *OrdersController) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// ── Mutations ────────────────────────────────────────────────────────────────

// ChangeStatus updates one order's status, then invalidates and refetches.
func (o *OrdersController) ChangeStatus(ctx context.Context, orderID, status string) error {
	if _, err := o.orders.UpdateStatus(ctx, orderID, status); err != nil {
		o.mu.Lock()
		o.lastErr = err
		o.mu.Unlock()
		return err
	}
	return o.refresh(ctx)
}

// Delete removes an order, then invalidates and refetches.
func (o *OrdersController) Delete(ctx context.Context, orderID string) error {
	if err := o.orders.Delete(ctx, orderID); err != nil {
		o.mu.Lock()
		o.lastErr = err
		o.mu.Unlock()
		return err
	}
	return o.refresh(ctx)
}
