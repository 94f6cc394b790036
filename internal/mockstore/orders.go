package mockstore

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storeadmin/app/models"
)

// GET /orders?page=&size=&sort= — Spring-style pageable envelope.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 0)
	size := queryInt(r, "size", 10)
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	sortKey := r.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = "id,desc"
	}

	s.mu.Lock()
	all := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		all = append(all, *o)
	}
	s.mu.Unlock()

	desc := strings.HasSuffix(sortKey, ",desc")
	sort.Slice(all, func(i, j int) bool {
		if desc {
			return all[i].OrderID > all[j].OrderID
		}
		return all[i].OrderID < all[j].OrderID
	})

	total := len(all)
	totalPages := (total + size - 1) / size

	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	writeJSON(w, http.StatusOK, models.OrderPage{
		Content:       all[start:end],
		TotalElements: int64(total),
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
	})
}

// GET /orders/{id}
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	o, found := s.orders[id]
	var out models.Order
	if found {
		out = *o
	}
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// POST /orders
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if !decodeBody(r, &o) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if o.Status == "" {
		o.Status = models.OrderPending
	} else {
		canonical, valid := canonicalIn(o.Status, models.OrderStatuses)
		if !valid {
			writeMessage(w, http.StatusBadRequest, "unknown order status")
			return
		}
		o.Status = canonical
	}

	s.mu.Lock()
	if o.OrderID == "" {
		o.OrderID = fmt.Sprintf("ORD-%04d", s.allocID())
	} else if _, exists := s.orders[o.OrderID]; exists {
		s.mu.Unlock()
		writeMessage(w, http.StatusBadRequest, "order id already exists")
		return
	}
	s.orders[o.OrderID] = &o
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, o)
}

// PATCH /orders/{id}/status
func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.StatusRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	canonical, valid := canonicalIn(req.Status, models.OrderStatuses)
	if !valid {
		writeMessage(w, http.StatusBadRequest, "unknown order status")
		return
	}

	s.mu.Lock()
	o, found := s.orders[id]
	var out models.Order
	if found {
		o.Status = canonical
		out = *o
	}
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// DELETE /orders/{id}
func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, found := s.orders[id]
	delete(s.orders, id)
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "order not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
