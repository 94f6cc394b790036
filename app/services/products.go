package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
)

// ProductService maps the products resource to HTTP verbs.
type ProductService struct {
	client *api.Client
}

func NewProductService(client *api.Client) *ProductService {
	return &ProductService{client: client}
}

// List fetches all products. Pagination over products is client-side.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.client.Get("/products").Send(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Get fetches one product by id.
func (s *ProductService) Get(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	err := s.client.Get("/products/%d", id).Send(ctx, &p)
	return p, err
}

// Create sends the product as a JSON multipart part plus an optional photo
// part. photo may be nil.
func (s *ProductService) Create(ctx context.Context, product models.Product, photoName string, photo []byte) (models.Product, error) {
	product.NormalizeForWrite()

	var created models.Product
	err := s.client.Post("/products").
		JSONPart("product", product).
		FilePart("photo", photoName, photo).
		Send(ctx, &created)
	return created, err
}

// Update replaces a product. Photo changes go through Create's multipart
// path; the plain update is JSON only, matching the backend contract.
func (s *ProductService) Update(ctx context.Context, id int64, product models.Product) (models.Product, error) {
	product.NormalizeForWrite()

	var updated models.Product
	err := s.client.Put("/products/%d", id).
		Body(product).
		Send(ctx, &updated)
	return updated, err
}

// Delete removes a product. Deleting an already-deleted product yields
// NotFound, never a silent success.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete("/products/%d", id).Send(ctx, nil)
}

// UpdateStatus patches a product's status. The canonical value is sent even
// when the caller passes a differently-cased label.
func (s *ProductService) UpdateStatus(ctx context.Context, id int64, status string) (models.Product, error) {
	canonical, ok := canonicalStatus(status, models.ProductStatuses)
	if !ok {
		return models.Product{}, fmt.Errorf("products: unknown status %q", status)
	}

	var updated models.Product
	err := s.client.Patch("/products/%d/status", id).
		Body(models.StatusRequest{Status: canonical}).
		Send(ctx, &updated)
	return updated, err
}

// ApplyDiscount sets a percentage discount on one product. The backend
// computes the discounted price and promo flag; the response carries them.
func (s *ProductService) ApplyDiscount(ctx context.Context, id int64, percent int) (models.Product, error) {
	if percent < 0 || percent > 100 {
		return models.Product{}, fmt.Errorf("products: discount %d%% out of range", percent)
	}

	var updated models.Product
	err := s.client.Put("/products/%d/discount", id).
		Body(models.DiscountRequest{Discount: percent}).
		Send(ctx, &updated)
	return updated, err
}

// ApplyDiscountToCategory sets a percentage discount on every product in a
// category and returns the updated products.
func (s *ProductService) ApplyDiscountToCategory(ctx context.Context, categoryName string, percent int) ([]models.Product, error) {
	if percent < 0 || percent > 100 {
		return nil, fmt.Errorf("products: discount %d%% out of range", percent)
	}

	var updated []models.Product
	err := s.client.Put("/categories/discount").
		Body(models.CategoryDiscountRequest{CategoryName: categoryName, Discount: percent}).
		Send(ctx, &updated)
	return updated, err
}

// ImageURL returns the absolute URL serving a product photo.
func (s *ProductService) ImageURL(filename string) string {
	return s.client.URL("/products/images/" + filename)
}

// canonicalStatus maps a status in any casing to its canonical write value.
func canonicalStatus(s string, known []string) (string, bool) {
	for _, k := range known {
		if models.StatusEquals(s, k) {
			return k, true
		}
	}
	return "", false
}
