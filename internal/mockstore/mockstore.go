// Package mockstore is an in-memory stand-in for the webStore backend.
//
// It implements the same REST contract the dashboard talks to — JWT
// authentication, products with multipart photo upload, categories, and
// Spring-style pageable orders — so the client packages can be exercised
// end to end without a Java deployment. `storeadmin mock` serves it on a
// local port; tests mount Handler() on an httptest server.
//
// It is deliberately not a real store: no persistence, no users beyond the
// seeded admin, and the simplest policy wherever the real backend's policy
// is unspecified (a category with assigned products refuses deletion).
package mockstore

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/pkg/metrics"
)

// Server holds the in-memory store state.
type Server struct {
	secret []byte

	mu         sync.Mutex
	users      map[string]user
	products   map[int64]*models.Product
	categories map[int64]*models.Category
	orders     map[string]*models.Order
	photos     map[string][]byte
	nextID     int64
}

type user struct {
	firstname string
	lastname  string
	email     string
	hash      string
}

// New builds a Server with a single seeded admin account and no data.
// Tests drive everything else through the API.
func New(secret string) *Server {
	s := &Server{
		secret:     []byte(secret),
		users:      make(map[string]user),
		products:   make(map[int64]*models.Product),
		categories: make(map[int64]*models.Category),
		orders:     make(map[string]*models.Order),
		photos:     make(map[string][]byte),
	}
	s.seedAdmin()
	return s
}

// Handler returns the full router, including /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/webStore", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/authenticate", s.handleAuthenticate)
			r.Post("/register", s.handleRegister)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/products", s.handleListProducts)
			r.Post("/products", s.handleCreateProduct)
			r.Get("/products/{id}", s.handleGetProduct)
			r.Put("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)
			r.Patch("/products/{id}/status", s.handleProductStatus)
			r.Put("/products/{id}/discount", s.handleProductDiscount)
			r.Get("/products/images/{filename}", s.handleProductImage)

			r.Get("/categories", s.handleListCategories)
			r.Post("/categories", s.handleCreateCategory)
			r.Get("/categories/{id}", s.handleGetCategory)
			r.Put("/categories/{id}", s.handleUpdateCategory)
			r.Delete("/categories/{id}", s.handleDeleteCategory)
			r.Put("/categories/discount", s.handleCategoryDiscount)

			r.Get("/orders", s.handleListOrders)
			r.Post("/orders", s.handleCreateOrder)
			r.Get("/orders/{id}", s.handleGetOrder)
			r.Patch("/orders/{id}/status", s.handleOrderStatus)
			r.Delete("/orders/{id}", s.handleDeleteOrder)
		})
	})

	return r
}

// ── Shared helpers ───────────────────────────────────────────────────────────

func (s *Server) allocID() int64 {
	s.nextID++
	return s.nextID
}

// applyDiscount recomputes the derived pricing fields the way the real
// backend would. The client never reproduces this arithmetic.
func applyDiscount(p *models.Product, percent int) {
	p.Discount = percent
	if percent > 0 {
		p.Promo = true
		p.Price = round2(p.OriginalPrice * (1 - float64(percent)/100))
	} else {
		p.Promo = false
		p.Price = p.OriginalPrice
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decodeBody(r *http.Request, dest interface{}) bool {
	return json.NewDecoder(r.Body).Decode(dest) == nil
}

// canonicalIn returns the canonical casing for a status value, matching
// case-insensitively against the known set.
func canonicalIn(status string, known []string) (string, bool) {
	for _, k := range known {
		if strings.EqualFold(strings.TrimSpace(status), k) {
			return k, true
		}
	}
	return "", false
}
