package mockstore

import (
	"net/http"
	"sort"
	"strings"

	"github.com/shashiranjanraj/storeadmin/app/models"
)

// categoryProducts collects the products assigned to a category by name.
// Caller holds s.mu.
func (s *Server) categoryProducts(name string) []models.Product {
	var out []models.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, name) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) categoryByName(name string) *models.Category {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// GET /categories
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out := *c
		out.Products = s.categoryProducts(c.Name)
		list = append(list, out)
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	writeJSON(w, http.StatusOK, list)
}

// GET /categories/{id}
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid category id")
		return
	}

	s.mu.Lock()
	c, found := s.categories[id]
	var out models.Category
	if found {
		out = *c
		out.Products = s.categoryProducts(c.Name)
	}
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "category not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /categories
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeMessage(w, http.StatusBadRequest, "category name is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryByName(req.Name) != nil {
		writeMessage(w, http.StatusBadRequest, "category name already exists")
		return
	}

	c := &models.Category{
		ID:          s.allocID(),
		Name:        req.Name,
		Description: req.Description,
	}
	s.categories[c.ID] = c
	writeJSON(w, http.StatusOK, *c)
}

// PUT /categories/{id}
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req models.CategoryRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, found := s.categories[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "category not found")
		return
	}
	if dup := s.categoryByName(req.Name); dup != nil && dup.ID != id {
		writeMessage(w, http.StatusBadRequest, "category name already exists")
		return
	}

	// Renaming a category follows its products along.
	if req.Name != "" && !strings.EqualFold(req.Name, c.Name) {
		for _, p := range s.products {
			if strings.EqualFold(p.Category, c.Name) {
				p.Category = req.Name
			}
		}
		c.Name = req.Name
	}
	c.Description = req.Description

	out := *c
	out.Products = s.categoryProducts(c.Name)
	writeJSON(w, http.StatusOK, out)
}

// DELETE /categories/{id} — refuses while products are still assigned.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid category id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, found := s.categories[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "category not found")
		return
	}
	if len(s.categoryProducts(c.Name)) > 0 {
		writeMessage(w, http.StatusBadRequest, "category has assigned products")
		return
	}

	delete(s.categories, id)
	w.WriteHeader(http.StatusNoContent)
}

// PUT /categories/discount — discounts every product in the category and
// returns the updated products.
func (s *Server) handleCategoryDiscount(w http.ResponseWriter, r *http.Request) {
	var req models.CategoryDiscountRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Discount < 0 || req.Discount > 100 {
		writeMessage(w, http.StatusBadRequest, "discount must be between 0 and 100")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryByName(req.CategoryName) == nil {
		writeMessage(w, http.StatusNotFound, "category not found")
		return
	}

	var updated []models.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, req.CategoryName) {
			applyDiscount(p, req.Discount)
			updated = append(updated, *p)
		}
	}
	sort.Slice(updated, func(i, j int) bool { return updated[i].ID < updated[j].ID })
	writeJSON(w, http.StatusOK, updated)
}
