package controllers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storeadmin/app/controllers"
	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/app/services"
	"github.com/shashiranjanraj/storeadmin/internal/mockstore"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
	"github.com/shashiranjanraj/storeadmin/pkg/cache"
	"github.com/shashiranjanraj/storeadmin/pkg/session"
)

// env wires the controllers against an in-process backend with a fresh
// memory cache per test.
type env struct {
	cache      *cache.Cache
	products   *services.ProductService
	categories *services.CategoryService
	orders     *services.OrderService

	productsCtl   *controllers.ProductsController
	categoriesCtl *controllers.CategoriesController
	ordersCtl     *controllers.OrdersController
	dashboard     *controllers.DashboardController
}

func newEnv(t *testing.T) *env {
	t.Helper()

	srv := httptest.NewServer(mockstore.New("test-secret").Handler())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	client := api.New(srv.URL, store)
	auth := services.NewAuthService(client, store)

	_, err := auth.Authenticate(context.Background(), mockstore.AdminEmail, mockstore.AdminPassword)
	require.NoError(t, err)

	e := &env{
		cache:      cache.New(cache.NewMemoryDriver()),
		products:   services.NewProductService(client),
		categories: services.NewCategoryService(client),
		orders:     services.NewOrderService(client),
	}
	e.productsCtl = controllers.NewProductsController(e.products, e.categories, e.cache)
	e.categoriesCtl = controllers.NewCategoriesController(e.categories, e.cache)
	e.ordersCtl = controllers.NewOrdersController(e.orders, e.cache)
	e.dashboard = controllers.NewDashboardController(e.products, e.categories, e.orders)
	return e
}

func (e *env) seedCategory(t *testing.T, name string) {
	t.Helper()
	_, err := e.categories.Create(context.Background(), models.CategoryRequest{Name: name})
	require.NoError(t, err)
}

func (e *env) seedProduct(t *testing.T, name, category, status string, price float64) models.Product {
	t.Helper()
	p, err := e.products.Create(context.Background(), models.Product{
		Name: name, Category: category, Price: price, Status: status, Stock: 10,
	}, "", nil)
	require.NoError(t, err)
	return p
}

// ─── Products: filters and paging ─────────────────────────────────────────────

func TestProductsFilteredIsConjunction(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedCategory(t, "Kitchen")
	e.seedProduct(t, "Espresso Beans", "Coffee", models.ProductAvailable, 10)
	e.seedProduct(t, "Espresso Cup", "Kitchen", models.ProductAvailable, 5)
	e.seedProduct(t, "Filter Coffee", "Coffee", models.ProductOutOfStock, 8)

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))

	ctl.SetSearch("espresso")
	ctl.SetCategory("Coffee")
	got := ctl.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "Espresso Beans", got[0].Name)

	// Same predicates applied in the opposite order give the same set.
	ctl2 := controllers.NewProductsController(e.products, e.categories, e.cache)
	require.NoError(t, ctl2.Load(context.Background()))
	ctl2.SetCategory("Coffee")
	ctl2.SetSearch("espresso")
	assert.Equal(t, got, ctl2.Filtered())
}

func TestProductsStatusFilterIgnoresCase(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedProduct(t, "Beans", "Coffee", models.ProductAvailable, 10)
	e.seedProduct(t, "Grounds", "Coffee", models.ProductOutOfStock, 8)

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))

	ctl.SetStatus("out_of_stock")
	got := ctl.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "Grounds", got[0].Name)
}

func TestProductsClientSidePaging(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	for i := 0; i < 25; i++ {
		e.seedProduct(t, fmt.Sprintf("Product %02d", i), "Coffee", models.ProductAvailable, 10)
	}

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))

	assert.Equal(t, 2, ctl.TotalPages())
	assert.Len(t, ctl.Visible(), 20)

	ctl.SetPage(2)
	assert.Len(t, ctl.Visible(), 5)

	// Out-of-range pages clamp.
	ctl.SetPage(99)
	assert.Equal(t, 2, ctl.Page())
	ctl.SetPage(-3)
	assert.Equal(t, 1, ctl.Page())
}

func TestProductsFilterChangeResetsPage(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	for i := 0; i < 25; i++ {
		e.seedProduct(t, fmt.Sprintf("Product %02d", i), "Coffee", models.ProductAvailable, 10)
	}

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))
	ctl.SetPage(2)

	ctl.SetSearch("Product")
	assert.Equal(t, 1, ctl.Page(), "changing the search rewinds to page 1")
}

func TestProductsCategoryNamesSorted(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Kitchen")
	e.seedCategory(t, "Coffee")

	require.NoError(t, e.productsCtl.Load(context.Background()))
	assert.Equal(t, []string{"Coffee", "Kitchen"}, e.productsCtl.CategoryNames())
}

// ─── Products: cache and mutations ────────────────────────────────────────────

func TestProductsLoadServesFromCache(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedProduct(t, "Beans", "Coffee", models.ProductAvailable, 10)

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))
	require.Len(t, ctl.Filtered(), 1)

	// A write that bypasses the controller is invisible until invalidation.
	e.seedProduct(t, "Grounds", "Coffee", models.ProductAvailable, 8)
	require.NoError(t, ctl.Load(context.Background()))
	assert.Len(t, ctl.Filtered(), 1, "plain Load must hit the cached list")
}

func TestProductsMutationInvalidatesAndRefetches(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	p := e.seedProduct(t, "Beans", "Coffee", models.ProductAvailable, 10)

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))

	// Another writer sneaks a product in; the mutation's refetch must pick
	// it up because the whole resource is invalidated, not just one entry.
	e.seedProduct(t, "Grounds", "Coffee", models.ProductAvailable, 8)

	require.NoError(t, ctl.ChangeStatus(context.Background(), p.ID, models.ProductOutOfStock))

	got := ctl.Filtered()
	require.Len(t, got, 2)
	for _, prod := range got {
		if prod.ID == p.ID {
			assert.Equal(t, models.ProductOutOfStock, prod.Status, "refetch carries the server's state")
		}
	}
}

func TestProductsSubmitAddFlow(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))

	ctl.OpenAdd()
	require.True(t, ctl.DialogOpen())

	ctl.SetForm(controllers.ProductForm{
		Name:     "Beans",
		Category: "Coffee",
		Price:    10,
		Status:   models.ProductAvailable,
	})
	require.NoError(t, ctl.SubmitAdd(context.Background()))

	assert.False(t, ctl.DialogOpen(), "dialog closes on success")
	assert.Len(t, ctl.Filtered(), 1, "list refetched after create")
}

func TestProductsInvalidFormKeepsDialogOpen(t *testing.T) {
	e := newEnv(t)
	ctl := e.productsCtl

	ctl.OpenAdd()
	ctl.SetForm(controllers.ProductForm{Name: "X"}) // too short, missing fields

	err := ctl.SubmitAdd(context.Background())
	require.ErrorIs(t, err, controllers.ErrValidation)

	assert.True(t, ctl.DialogOpen(), "dialog stays open on validation failure")
	assert.Equal(t, "X", ctl.Form().Name, "buffer survives for retry")
	assert.Contains(t, ctl.FormErrors(), "name")
	assert.Contains(t, ctl.FormErrors(), "category")
}

func TestProductsSubmitEditWithoutSelection(t *testing.T) {
	e := newEnv(t)
	err := e.productsCtl.SubmitEdit(context.Background())
	assert.ErrorIs(t, err, controllers.ErrNoSelection)
}

func TestProductsDiscountDialogFlow(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	p := e.seedProduct(t, "Grinder", "Coffee", models.ProductAvailable, 100)

	ctl := e.productsCtl
	require.NoError(t, ctl.Load(context.Background()))

	ctl.OpenDiscount(p, 20)
	require.NoError(t, ctl.SubmitDiscount(context.Background()))
	assert.False(t, ctl.DialogOpen())

	got := ctl.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, 80.0, got[0].Price, "refetched row carries server-computed price")
	assert.True(t, got[0].Promo)
}

// ─── Categories ───────────────────────────────────────────────────────────────

func TestCategoriesSearch(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedCategory(t, "Kitchen")

	ctl := e.categoriesCtl
	require.NoError(t, ctl.Load(context.Background()))

	ctl.SetSearch("cof")
	got := ctl.Visible()
	require.Len(t, got, 1)
	assert.Equal(t, "Coffee", got[0].Name)

	ctl.SetSearch("")
	assert.Len(t, ctl.Visible(), 2)
}

func TestCategoriesDuplicateNameKeepsDialogOpen(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")

	ctl := e.categoriesCtl
	require.NoError(t, ctl.Load(context.Background()))

	ctl.OpenAdd()
	ctl.SetForm(controllers.CategoryForm{Name: "Coffee"})

	err := ctl.SubmitAdd(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsValidation(err), "got %v", err)
	assert.True(t, ctl.DialogOpen(), "backend refusal keeps the dialog open")
	assert.Equal(t, "Coffee", ctl.Form().Name)
}

func TestCategoryMutationInvalidatesProductLists(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedProduct(t, "Beans", "Coffee", models.ProductAvailable, 10)

	// Warm the products cache.
	require.NoError(t, e.productsCtl.Load(context.Background()))

	ctl := e.categoriesCtl
	require.NoError(t, ctl.Load(context.Background()))
	cats := ctl.Visible()
	require.Len(t, cats, 1)

	ctl.OpenEdit(cats[0])
	ctl.SetForm(controllers.CategoryForm{Name: "Beverages"})
	require.NoError(t, ctl.SubmitEdit(context.Background()))

	// The rename rippled into product rows, so the products refetch must
	// see it rather than the stale cached list.
	require.NoError(t, e.productsCtl.Load(context.Background()))
	got := e.productsCtl.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "Beverages", got[0].Category)
}

func TestCategoryDeleteRefusalKeepsDialogOpen(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedProduct(t, "Beans", "Coffee", models.ProductAvailable, 10)

	ctl := e.categoriesCtl
	require.NoError(t, ctl.Load(context.Background()))
	cats := ctl.Visible()
	require.Len(t, cats, 1)

	ctl.OpenDelete(cats[0])
	err := ctl.ConfirmDelete(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsValidation(err), "got %v", err)
	assert.True(t, ctl.DialogOpen())
}

// ─── Orders ───────────────────────────────────────────────────────────────────

func (e *env) seedOrders(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := e.orders.Create(context.Background(), models.Order{
			CustomerInfo: models.CustomerInfo{Name: fmt.Sprintf("Customer %d", i+1)},
		})
		require.NoError(t, err)
	}
}

func TestOrdersServerSidePaging(t *testing.T) {
	e := newEnv(t)
	e.seedOrders(t, 25)

	ctl := e.ordersCtl
	ctl.SetPageSize(10)
	require.NoError(t, ctl.Load(context.Background()))

	assert.EqualValues(t, 25, ctl.TotalElements())
	assert.Equal(t, 3, ctl.TotalPages())
	assert.Len(t, ctl.Visible(), 10)

	ctl.SetPage(2)
	require.NoError(t, ctl.Load(context.Background()))
	assert.Len(t, ctl.Visible(), 5, "last page is partial")
}

func TestOrdersPageSizeChangeRewinds(t *testing.T) {
	e := newEnv(t)
	e.seedOrders(t, 25)

	ctl := e.ordersCtl
	ctl.SetPageSize(10)
	require.NoError(t, ctl.Load(context.Background()))
	ctl.SetPage(2)
	require.NoError(t, ctl.Load(context.Background()))

	ctl.SetPageSize(5)
	assert.Equal(t, 0, ctl.Page(), "size change rewinds to the first page")

	// Zero and negative sizes are ignored.
	ctl.SetPageSize(0)
	require.NoError(t, ctl.Load(context.Background()))
	assert.Len(t, ctl.Visible(), 5)
}

func TestOrdersClientSideSearchAndStatus(t *testing.T) {
	e := newEnv(t)
	e.seedOrders(t, 5)

	ctl := e.ordersCtl
	ctl.SetPageSize(10)
	require.NoError(t, ctl.Load(context.Background()))

	ctl.SetSearch("customer 3")
	got := ctl.Visible()
	require.Len(t, got, 1)
	assert.Equal(t, "Customer 3", got[0].CustomerInfo.Name)

	ctl.SetSearch("ord-0002")
	got = ctl.Visible()
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-0002", got[0].OrderID)

	ctl.SetSearch("")
	ctl.SetStatus(models.OrderShipped)
	assert.Empty(t, ctl.Visible(), "no shipped orders yet")
}

func TestOrdersChangeStatusRefetches(t *testing.T) {
	e := newEnv(t)
	e.seedOrders(t, 3)

	ctl := e.ordersCtl
	ctl.SetPageSize(10)
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.ChangeStatus(context.Background(), "ORD-0002", models.OrderShipped))

	ctl.SetStatus(models.OrderShipped)
	got := ctl.Visible()
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-0002", got[0].OrderID)
}

func TestOrdersDeleteRefetches(t *testing.T) {
	e := newEnv(t)
	e.seedOrders(t, 3)

	ctl := e.ordersCtl
	ctl.SetPageSize(10)
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.Delete(context.Background(), "ORD-0001"))
	assert.EqualValues(t, 2, ctl.TotalElements())
	assert.Len(t, ctl.Visible(), 2)
}

// ─── Dashboard ────────────────────────────────────────────────────────────────

func TestDashboardStats(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedProduct(t, "Beans", "Coffee", models.ProductAvailable, 10)
	e.seedProduct(t, "Grounds", "Coffee", models.ProductOutOfStock, 8)
	p := e.seedProduct(t, "Grinder", "Coffee", models.ProductAvailable, 100)
	_, err := e.products.ApplyDiscount(context.Background(), p.ID, 20)
	require.NoError(t, err)
	e.seedOrders(t, 4)

	stats, err := e.dashboard.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.ProductCount)
	assert.Equal(t, 1, stats.CategoryCount)
	assert.Equal(t, 30, stats.TotalStock)
	assert.Equal(t, 1, stats.OutOfStock)
	assert.Equal(t, 1, stats.OnPromo)
	assert.EqualValues(t, 4, stats.OrderCount)
	assert.Equal(t, 4, stats.PendingOrders)
}

// ─── Stale responses ──────────────────────────────────────────────────────────

// interceptTransport runs hook while the first request matched by match is
// still in flight, then answers it with reply (or forwards it when reply is
// nil). Every other request passes straight through.
type interceptTransport struct {
	match func(*http.Request) bool
	hook  func()
	reply func() (*http.Response, error)

	mu      sync.Mutex
	tripped bool
}

func (it *interceptTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	it.mu.Lock()
	hit := !it.tripped && it.match(r)
	if hit {
		it.tripped = true
	}
	it.mu.Unlock()

	if !hit {
		return http.DefaultTransport.RoundTrip(r)
	}

	it.hook()
	if it.reply == nil {
		return http.DefaultTransport.RoundTrip(r)
	}
	return it.reply()
}

func jsonReply(t *testing.T, v interface{}) func() (*http.Response, error) {
	t.Helper()
	return func() (*http.Response, error) {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "application/json")
		rec.Write(b) //nolint:errcheck
		return rec.Result(), nil
	}
}

func TestProductsStaleLoadIsDropped(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	old := e.seedProduct(t, "Old Blend", "Coffee", models.ProductAvailable, 10)
	e.seedProduct(t, "New Blend", "Coffee", models.ProductAvailable, 12)

	ctl := e.productsCtl

	defer api.ResetTransport()
	api.SetTransport(&interceptTransport{
		match: func(r *http.Request) bool {
			return r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/products")
		},
		// A second load starts while the first request is in flight; the
		// first is then answered with an out-of-date snapshot.
		hook:  func() { require.NoError(t, ctl.Load(context.Background())) },
		reply: jsonReply(t, []models.Product{old}),
	})

	require.NoError(t, ctl.Load(context.Background()))
	assert.Len(t, ctl.Filtered(), 2, "the superseded snapshot must not win")

	// The stale snapshot stayed out of the shared cache too.
	ctl2 := controllers.NewProductsController(e.products, e.categories, e.cache)
	require.NoError(t, ctl2.Load(context.Background()))
	assert.Len(t, ctl2.Filtered(), 2)
}

func TestCategoriesStaleLoadIsDropped(t *testing.T) {
	e := newEnv(t)
	e.seedCategory(t, "Coffee")
	e.seedCategory(t, "Tea")

	ctl := e.categoriesCtl

	defer api.ResetTransport()
	api.SetTransport(&interceptTransport{
		match: func(r *http.Request) bool {
			return r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/categories")
		},
		hook:  func() { require.NoError(t, ctl.Load(context.Background())) },
		reply: jsonReply(t, []models.Category{{Name: "Coffee"}}),
	})

	require.NoError(t, ctl.Load(context.Background()))
	assert.Len(t, ctl.Visible(), 2)
}

func TestOrdersStalePageIsDropped(t *testing.T) {
	e := newEnv(t)
	e.seedOrders(t, 25)

	ctl := e.ordersCtl
	ctl.SetPageSize(10)

	defer api.ResetTransport()
	api.SetTransport(&interceptTransport{
		match: func(r *http.Request) bool {
			return r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/orders")
		},
		// The user moves to the next page while page 0 is in flight.
		hook: func() { ctl.SetPage(1) },
	})

	require.NoError(t, ctl.Load(context.Background()))
	assert.Empty(t, ctl.Visible(), "the page-0 response arrived for a query that is no longer current")
	assert.Zero(t, ctl.TotalElements())

	require.NoError(t, ctl.Load(context.Background()))
	assert.Equal(t, 1, ctl.Page())
	assert.Len(t, ctl.Visible(), 10)
}
