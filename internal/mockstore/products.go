package mockstore

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storeadmin/app/models"
)

const maxPhotoSize = 10 << 20 // 10 MiB

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// GET /products
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, *p)
	}
	s.mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	writeJSON(w, http.StatusOK, list)
}

// GET /products/{id}
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}

	s.mu.Lock()
	p, found := s.products[id]
	s.mu.Unlock()
	if !found {
		writeMessage(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, *p)
}

// POST /products — multipart: "product" JSON part, optional "photo" file.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeMessage(w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	var p models.Product
	if raw := r.FormValue("product"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			writeMessage(w, http.StatusBadRequest, "malformed product part")
			return
		}
	} else {
		writeMessage(w, http.StatusBadRequest, "missing product part")
		return
	}
	if p.Name == "" {
		writeMessage(w, http.StatusBadRequest, "product name is required")
		return
	}

	if file, header, err := r.FormFile("photo"); err == nil {
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr == nil {
			s.mu.Lock()
			s.photos[header.Filename] = data
			s.mu.Unlock()
			p.PhotoPath = header.Filename
		}
	}

	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	applyDiscount(&p, p.Discount)

	s.mu.Lock()
	p.ID = s.allocID()
	s.products[p.ID] = &p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

// PUT /products/{id}
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var p models.Product
	if !decodeBody(r, &p) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}

	s.mu.Lock()
	existing, found := s.products[id]
	if !found {
		s.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "product not found")
		return
	}

	p.ID = id
	if p.PhotoPath == "" {
		p.PhotoPath = existing.PhotoPath
	}
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}
	applyDiscount(&p, p.Discount)
	s.products[id] = &p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, p)
}

// DELETE /products/{id}
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}

	s.mu.Lock()
	_, found := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "product not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /products/{id}/status
func (s *Server) handleProductStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req models.StatusRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	canonical, valid := canonicalIn(req.Status, models.ProductStatuses)
	if !valid {
		writeMessage(w, http.StatusBadRequest, "unknown product status")
		return
	}

	s.mu.Lock()
	p, found := s.products[id]
	if found {
		p.Status = canonical
	}
	var updated models.Product
	if found {
		updated = *p
	}
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// PUT /products/{id}/discount
func (s *Server) handleProductDiscount(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req models.DiscountRequest
	if !decodeBody(r, &req) {
		writeMessage(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Discount < 0 || req.Discount > 100 {
		writeMessage(w, http.StatusBadRequest, "discount must be between 0 and 100")
		return
	}

	s.mu.Lock()
	p, found := s.products[id]
	if found {
		applyDiscount(p, req.Discount)
	}
	var updated models.Product
	if found {
		updated = *p
	}
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GET /products/images/{filename}
func (s *Server) handleProductImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	s.mu.Lock()
	data, found := s.photos[filename]
	s.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "image not found")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(data)
}
