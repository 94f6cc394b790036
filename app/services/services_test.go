package services_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/app/services"
	"github.com/shashiranjanraj/storeadmin/internal/mockstore"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
	"github.com/shashiranjanraj/storeadmin/pkg/session"
)

// env wires every service against an in-process backend.
type env struct {
	store      *session.MemoryStore
	auth       *services.AuthService
	products   *services.ProductService
	categories *services.CategoryService
	orders     *services.OrderService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	srv := httptest.NewServer(mockstore.New("test-secret").Handler())
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	client := api.New(srv.URL, store)

	return &env{
		store:      store,
		auth:       services.NewAuthService(client, store),
		products:   services.NewProductService(client),
		categories: services.NewCategoryService(client),
		orders:     services.NewOrderService(client),
	}
}

// login authenticates with the seeded admin account.
func (e *env) login(t *testing.T) {
	t.Helper()
	_, err := e.auth.Authenticate(context.Background(), mockstore.AdminEmail, mockstore.AdminPassword)
	require.NoError(t, err)
}

// ─── Authentication ───────────────────────────────────────────────────────────

func TestAuthenticateStoresToken(t *testing.T) {
	e := newEnv(t)

	token, err := e.auth.Authenticate(context.Background(), mockstore.AdminEmail, mockstore.AdminPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, e.auth.CurrentToken(), "token must be persisted on success")
}

func TestAuthenticateBadPassword(t *testing.T) {
	e := newEnv(t)

	_, err := e.auth.Authenticate(context.Background(), mockstore.AdminEmail, "wrong")
	require.Error(t, err)
	assert.True(t, api.IsInvalidCredentials(err), "got %v", err)
	assert.Empty(t, e.auth.CurrentToken(), "failed login must not leave a token behind")
}

func TestProtectedRouteWithoutLogin(t *testing.T) {
	e := newEnv(t)

	_, err := e.products.List(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err), "got %v", err)
}

func TestLogoutDropsToken(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	e.auth.Logout()
	assert.Empty(t, e.auth.CurrentToken())

	_, err := e.products.List(context.Background())
	assert.True(t, api.IsUnauthorized(err), "requests after logout go out unauthenticated")
}

func TestRegisterThenAuthenticate(t *testing.T) {
	e := newEnv(t)

	err := e.auth.Register(context.Background(), models.RegisterRequest{
		Firstname: "New",
		Lastname:  "Staff",
		Email:     "staff@example.com",
		Password:  "hunter2",
	})
	require.NoError(t, err)

	_, err = e.auth.Authenticate(context.Background(), "staff@example.com", "hunter2")
	require.NoError(t, err)
}

// ─── Products ─────────────────────────────────────────────────────────────────

func TestProductLifecycle(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	created, err := e.products.Create(ctx, models.Product{
		Name:     "Espresso Beans",
		Category: "Coffee",
		Price:    12.50,
		Stock:    40,
		Status:   models.ProductAvailable,
	}, "beans.jpg", []byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "beans.jpg", created.PhotoPath)
	assert.Equal(t, 12.50, created.OriginalPrice, "original price defaults to price")

	got, err := e.products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)

	got.Stock = 35
	updated, err := e.products.Update(ctx, created.ID, got)
	require.NoError(t, err)
	assert.Equal(t, 35, updated.Stock)
	assert.Equal(t, "beans.jpg", updated.PhotoPath, "photo survives a JSON update")

	require.NoError(t, e.products.Delete(ctx, created.ID))

	err = e.products.Delete(ctx, created.ID)
	assert.True(t, api.IsNotFound(err), "deleting twice must surface NotFound, got %v", err)
}

func TestProductCreateWithoutPhoto(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	created, err := e.products.Create(context.Background(), models.Product{
		Name:     "Mug",
		Category: "Kitchen",
		Price:    8,
		Status:   models.ProductAvailable,
	}, "", nil)
	require.NoError(t, err)
	assert.Empty(t, created.PhotoPath)
}

func TestStatusUpdateCanonicalizesCasing(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	created, err := e.products.Create(ctx, models.Product{
		Name: "Mug", Category: "Kitchen", Price: 8, Status: models.ProductAvailable,
	}, "", nil)
	require.NoError(t, err)

	// Lower-case input still writes the canonical value.
	updated, err := e.products.UpdateStatus(ctx, created.ID, "out_of_stock")
	require.NoError(t, err)
	assert.Equal(t, models.ProductOutOfStock, updated.Status)

	_, err = e.products.UpdateStatus(ctx, created.ID, "DISCONTINUED")
	assert.Error(t, err, "unknown status is rejected before any request")
}

func TestDiscountComputedByBackend(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	created, err := e.products.Create(ctx, models.Product{
		Name: "Grinder", Category: "Coffee", Price: 100, Status: models.ProductAvailable,
	}, "", nil)
	require.NoError(t, err)

	updated, err := e.products.ApplyDiscount(ctx, created.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, 80.0, updated.Price)
	assert.Equal(t, 100.0, updated.OriginalPrice)
	assert.True(t, updated.Promo)
	assert.Equal(t, 20, updated.Discount)

	// Removing the discount restores the original price.
	updated, err = e.products.ApplyDiscount(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, updated.Price)
	assert.False(t, updated.Promo)
}

func TestDiscountRangeCheckedLocally(t *testing.T) {
	e := newEnv(t)
	e.login(t)

	_, err := e.products.ApplyDiscount(context.Background(), 1, 101)
	assert.Error(t, err)
	_, err = e.products.ApplyDiscount(context.Background(), 1, -1)
	assert.Error(t, err)
}

func TestCategoryWideDiscount(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	_, err := e.categories.Create(ctx, models.CategoryRequest{Name: "Coffee"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := e.products.Create(ctx, models.Product{
			Name: fmt.Sprintf("Coffee %d", i), Category: "Coffee", Price: 50,
			Status: models.ProductAvailable,
		}, "", nil)
		require.NoError(t, err)
	}
	_, err = e.products.Create(ctx, models.Product{
		Name: "Mug", Category: "Kitchen", Price: 8, Status: models.ProductAvailable,
	}, "", nil)
	require.NoError(t, err)

	updated, err := e.products.ApplyDiscountToCategory(ctx, "Coffee", 10)
	require.NoError(t, err)
	require.Len(t, updated, 2, "only the named category is touched")
	for _, p := range updated {
		assert.Equal(t, 45.0, p.Price)
		assert.True(t, p.Promo)
	}
}

// ─── Categories ───────────────────────────────────────────────────────────────

func TestCategoryDuplicateName(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	_, err := e.categories.Create(ctx, models.CategoryRequest{Name: "Coffee"})
	require.NoError(t, err)

	_, err = e.categories.Create(ctx, models.CategoryRequest{Name: "coffee"})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err), "got %v", err)

	var ae *api.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "category name already exists", ae.Message)
}

func TestCategoryDeleteRefusedWithProducts(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	cat, err := e.categories.Create(ctx, models.CategoryRequest{Name: "Coffee"})
	require.NoError(t, err)
	_, err = e.products.Create(ctx, models.Product{
		Name: "Beans", Category: "Coffee", Price: 10, Status: models.ProductAvailable,
	}, "", nil)
	require.NoError(t, err)

	err = e.categories.Delete(ctx, cat.ID)
	require.Error(t, err)
	assert.True(t, api.IsValidation(err), "got %v", err)
}

func TestCategoryRenameFollowsProducts(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	cat, err := e.categories.Create(ctx, models.CategoryRequest{Name: "Coffee"})
	require.NoError(t, err)
	p, err := e.products.Create(ctx, models.Product{
		Name: "Beans", Category: "Coffee", Price: 10, Status: models.ProductAvailable,
	}, "", nil)
	require.NoError(t, err)

	_, err = e.categories.Update(ctx, cat.ID, models.CategoryRequest{Name: "Beverages"})
	require.NoError(t, err)

	got, err := e.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beverages", got.Category)
}

func TestCategoryListIncludesProducts(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	_, err := e.categories.Create(ctx, models.CategoryRequest{Name: "Coffee"})
	require.NoError(t, err)
	_, err = e.products.Create(ctx, models.Product{
		Name: "Beans", Category: "Coffee", Price: 10, Status: models.ProductAvailable,
	}, "", nil)
	require.NoError(t, err)

	list, err := e.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Products, 1)
	assert.Equal(t, "Beans", list[0].Products[0].Name)
}

// ─── Orders ───────────────────────────────────────────────────────────────────

func seedOrders(t *testing.T, e *env, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := e.orders.Create(context.Background(), models.Order{
			Status: models.OrderPending,
			CustomerInfo: models.CustomerInfo{
				Name: fmt.Sprintf("Customer %d", i+1),
			},
		})
		require.NoError(t, err)
	}
}

func TestOrdersPageableEnvelope(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	seedOrders(t, e, 25)

	page, err := e.orders.List(context.Background(), 1, 10, "")
	require.NoError(t, err)

	assert.Len(t, page.Content, 10)
	assert.EqualValues(t, 25, page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 10, page.Size)
}

func TestOrdersLastPagePartial(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	seedOrders(t, e, 25)

	page, err := e.orders.List(context.Background(), 2, 10, "")
	require.NoError(t, err)
	assert.Len(t, page.Content, 5)
}

func TestOrdersDefaultSortNewestFirst(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	seedOrders(t, e, 3)

	page, err := e.orders.List(context.Background(), 0, 10, "")
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "ORD-0003", page.Content[0].OrderID)

	asc, err := e.orders.List(context.Background(), 0, 10, "id,asc")
	require.NoError(t, err)
	assert.Equal(t, "ORD-0001", asc.Content[0].OrderID)
}

func TestOrderStatusLifecycle(t *testing.T) {
	e := newEnv(t)
	e.login(t)
	ctx := context.Background()

	created, err := e.orders.Create(ctx, models.Order{})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, created.Status, "new orders default to pending")

	updated, err := e.orders.UpdateStatus(ctx, created.OrderID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderShipped, updated.Status)

	_, err = e.orders.UpdateStatus(ctx, created.OrderID, "LOST")
	assert.Error(t, err, "unknown status is rejected before any request")

	require.NoError(t, e.orders.Delete(ctx, created.OrderID))
	_, err = e.orders.Get(ctx, created.OrderID)
	assert.True(t, api.IsNotFound(err))
}
