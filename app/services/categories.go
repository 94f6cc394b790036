package services

import (
	"context"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/pkg/api"
)

// CategoryService maps the categories resource to HTTP verbs. Standard CRUD
// only; the category-wide discount lives on ProductService because it
// returns products.
type CategoryService struct {
	client *api.Client
}

func NewCategoryService(client *api.Client) *CategoryService {
	return &CategoryService{client: client}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.client.Get("/categories").Send(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (models.Category, error) {
	var c models.Category
	err := s.client.Get("/categories/%d", id).Send(ctx, &c)
	return c, err
}

// Create adds a category. A duplicate name comes back as a Validation
// error carrying the backend's message.
func (s *CategoryService) Create(ctx context.Context, req models.CategoryRequest) (models.Category, error) {
	var created models.Category
	err := s.client.Post("/categories").Body(req).Send(ctx, &created)
	return created, err
}

func (s *CategoryService) Update(ctx context.Context, id int64, req models.CategoryRequest) (models.Category, error) {
	var updated models.Category
	err := s.client.Put("/categories/%d", id).Body(req).Send(ctx, &updated)
	return updated, err
}

// Delete removes a category. Whether a category with assigned products can
// be deleted is the backend's policy; a refusal surfaces as a Validation
// error.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	return s.client.Delete("/categories/%d", id).Send(ctx, nil)
}
