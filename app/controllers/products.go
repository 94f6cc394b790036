// Package controllers holds the per-page view state of the dashboard: search
// terms, filters, pagination cursors, dialog flags, and form buffers, plus
// the orchestration of service calls around them.
//
// The mutation flow is uniform across pages: validate the form buffer, call
// the service, and on success invalidate the resource's cached list, refetch,
// close the dialog, and reset the buffer. On failure the error is surfaced
// and the dialog stays open with the buffer intact so the user can retry
// without re-entering data. Reads never patch local state from a mutation
// response; the backend recomputes derived fields, so the refetch is the
// only source of truth.
package controllers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/app/services"
	"github.com/shashiranjanraj/storeadmin/pkg/cache"
	"github.com/shashiranjanraj/storeadmin/pkg/collection"
	"github.com/shashiranjanraj/storeadmin/pkg/validate"
)

// FilterAll is the sentinel meaning "no filter" for category and status
// selections.
const FilterAll = "all"

// productsPerPage is the client-side page size for the products table.
const productsPerPage = 20

type dialog int

const (
	dialogNone dialog = iota
	dialogAdd
	dialogEdit
	dialogDelete
	dialogDiscount
)

// ProductForm is the add/edit form buffer.
type ProductForm struct {
	Name          string  `json:"name"          validate:"required,min=2,max=255"`
	Description   string  `json:"description"   validate:"nullable,max=2000"`
	Category      string  `json:"category"      validate:"required"`
	Price         float64 `json:"price"         validate:"required,gte=0"`
	OriginalPrice float64 `json:"originalPrice" validate:"nullable,gte=0"`
	Stock         int     `json:"stock"         validate:"nullable,gte=0"`
	Status        string  `json:"status"        validate:"required"`
	Discount      int     `json:"discount"      validate:"nullable,gte=0,lte=100"`
	Promo         bool    `json:"promo"`

	PhotoName string
	Photo     []byte
}

func (f ProductForm) toProduct() models.Product {
	return models.Product{
		Name:          f.Name,
		Description:   f.Description,
		Category:      f.Category,
		Price:         f.Price,
		OriginalPrice: f.OriginalPrice,
		Stock:         f.Stock,
		Status:        f.Status,
		Discount:      f.Discount,
		Promo:         f.Promo,
	}
}

// ProductsController drives the products list page. Products are fetched as
// a full set and paginated client-side.
type ProductsController struct {
	products   *services.ProductService
	categories *services.CategoryService
	cache      *cache.Cache

	mu sync.Mutex

	search         string
	categoryFilter string
	statusFilter   string
	page           int // 1-based

	all           []models.Product
	categoryNames []string

	// loadSeq supersedes stale fetches: a response is applied only when no
	// newer load has started since it was issued.
	loadSeq uint64

	open     dialog
	form     ProductForm
	formErrs map[string]string
	editing  *models.Product
	lastErr  error

	discountCategory bool // discount dialog targets a whole category
	discountTarget   int64
	discountName     string
	discountPercent  int
}

func NewProductsController(products *services.ProductService, categories *services.CategoryService, c *cache.Cache) *ProductsController {
	return &ProductsController{
		products:       products,
		categories:     categories,
		cache:          c,
		categoryFilter: FilterAll,
		statusFilter:   FilterAll,
		page:           1,
		form:           defaultProductForm(),
	}
}

func defaultProductForm() ProductForm {
	return ProductForm{Status: models.ProductAvailable}
}

// ── Loading ──────────────────────────────────────────────────────────────────

// Load fetches the full product set (through the cache) plus the category
// names for the filter select. A load that finishes after a newer one has
// started is dropped.
func (p *ProductsController) Load(ctx context.Context) error {
	p.mu.Lock()
	p.loadSeq++
	seq := p.loadSeq
	p.mu.Unlock()

	key := cache.ListKey("products", nil)

	var fetched []models.Product
	cached := p.cache.Get(key, &fetched)
	if !cached {
		var err error
		fetched, err = p.products.List(ctx)
		if err != nil {
			p.setErr(err)
			return err
		}
	}

	names, err := p.loadCategoryNames(ctx)
	if err != nil {
		p.setErr(err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if seq != p.loadSeq {
		// A newer load superseded this one; its result wins. The cache is
		// left untouched too, or the stale set would shadow the newer one.
		return nil
	}
	if !cached {
		_ = p.cache.Set(key, fetched)
	}
	p.all = fetched
	p.categoryNames = names
	p.lastErr = nil
	return nil
}

func (p *ProductsController) loadCategoryNames(ctx context.Context) ([]string, error) {
	key := cache.ListKey("categories", nil)

	var cats []models.Category
	if !p.cache.Get(key, &cats) {
		var err error
		cats, err = p.categories.List(ctx)
		if err != nil {
			return nil, err
		}
		_ = p.cache.Set(key, cats)
	}

	names := collection.Map(cats, func(c models.Category) string { return c.Name })
	sort.Strings(names)
	return names, nil
}

// refresh drops the cached product list and reloads. Every successful
// mutation funnels through here.
func (p *ProductsController) refresh(ctx context.Context) error {
	_ = p.cache.Forget("products")
	return p.Load(ctx)
}

// ── Filters and pagination ───────────────────────────────────────────────────

// SetSearch updates the search term and resets to the first page.
func (p *ProductsController) SetSearch(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = term
	p.page = 1
}

// SetCategory sets the category filter (FilterAll clears it).
func (p *ProductsController) SetCategory(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.categoryFilter = name
	p.page = 1
}

// SetStatus sets the status filter (FilterAll clears it).
func (p *ProductsController) SetStatus(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statusFilter = status
	p.page = 1
}

// Filtered returns the products matching the current search and filters.
// Each predicate narrows independently, so applying them in any order gives
// the same set.
func (p *ProductsController) Filtered() []models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filteredLocked()
}

func (p *ProductsController) filteredLocked() []models.Product {
	term := strings.ToLower(strings.TrimSpace(p.search))

	return collection.Filter(p.all, func(prod models.Product) bool {
		if term != "" && !strings.Contains(strings.ToLower(prod.Name), term) {
			return false
		}
		if p.categoryFilter != FilterAll && prod.Category != p.categoryFilter {
			return false
		}
		if p.statusFilter != FilterAll && !models.StatusEquals(prod.Status, p.statusFilter) {
			return false
		}
		return true
	})
}

// Visible returns the current page of the filtered set.
func (p *ProductsController) Visible() []models.Product {
	p.mu.Lock()
	defer p.mu.Unlock()

	return collection.Paginate(p.filteredLocked(), p.page, productsPerPage)
}

// TotalPages reports the client-side page count for the filtered set.
func (p *ProductsController) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.filteredLocked())
	if n == 0 {
		return 1
	}
	return (n + productsPerPage - 1) / productsPerPage
}

// Page returns the 1-based current page.
func (p *ProductsController) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// SetPage clamps and sets the current page.
func (p *ProductsController) SetPage(n int) {
	total := p.TotalPages()

	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	p.page = n
}

// CategoryNames returns the filter choices loaded alongside the products.
func (p *ProductsController) CategoryNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.categoryNames...)
}

// ── Dialogs ──────────────────────────────────────────────────────────────────

// OpenAdd opens the add dialog with a fresh form buffer.
func (p *ProductsController) OpenAdd() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = dialogAdd
	p.form = defaultProductForm()
	p.formErrs = nil
	p.editing = nil
}

// OpenEdit opens the edit dialog pre-filled from an existing product.
func (p *ProductsController) OpenEdit(prod models.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = dialogEdit
	p.editing = &prod
	p.formErrs = nil
	p.form = ProductForm{
		Name:          prod.Name,
		Description:   prod.Description,
		Category:      prod.Category,
		Price:         prod.Price,
		OriginalPrice: prod.OriginalPrice,
		Stock:         prod.Stock,
		Status:        prod.Status,
		Discount:      prod.Discount,
		Promo:         prod.Promo,
	}
}

// OpenDelete opens the delete confirmation for a product.
func (p *ProductsController) OpenDelete(prod models.Product) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = dialogDelete
	p.editing = &prod
}

// OpenDiscount opens the discount dialog for one product.
func (p *ProductsController) OpenDiscount(prod models.Product, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = dialogDiscount
	p.discountCategory = false
	p.discountTarget = prod.ID
	p.discountName = prod.Name
	p.discountPercent = percent
}

// OpenCategoryDiscount opens the discount dialog for a whole category.
func (p *ProductsController) OpenCategoryDiscount(categoryName string, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = dialogDiscount
	p.discountCategory = true
	p.discountName = categoryName
	p.discountPercent = percent
}

// CloseDialog dismisses whichever dialog is open and resets the buffer.
func (p *ProductsController) CloseDialog() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *ProductsController) closeLocked() {
	p.open = dialogNone
	p.form = defaultProductForm()
	p.formErrs = nil
	p.editing = nil
	p.discountCategory = false
	p.discountTarget = 0
	p.discountName = ""
	p.discountPercent = 0
}

// DialogOpen reports whether any dialog is currently open.
func (p *ProductsController) DialogOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open != dialogNone
}

// Form returns the current form buffer.
func (p *ProductsController) Form() ProductForm {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

// SetForm replaces the form buffer (UI input binding).
func (p *ProductsController) SetForm(f ProductForm) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.form = f
}

// FormErrors returns per-field validation messages from the last submit.
func (p *ProductsController) FormErrors() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.formErrs
}

// Err returns the last surfaced error, cleared on the next successful load.
func (p *ProductsController) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *ProductsController) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
}

// ── Mutations ────────────────────────────────────────────────────────────────

// SubmitAdd validates the buffer and creates the product. On success the
// list cache is invalidated, refetched, and the dialog closes.
func (p *ProductsController) SubmitAdd(ctx context.Context) error {
	p.mu.Lock()
	form := p.form
	p.mu.Unlock()

	if errs := validate.Struct(form); validate.HasErrors(errs) {
		p.mu.Lock()
		p.formErrs = errs
		p.mu.Unlock()
		return ErrValidation
	}

	if _, err := p.products.Create(ctx, form.toProduct(), form.PhotoName, form.Photo); err != nil {
		p.setErr(err)
		return err
	}

	if err := p.refresh(ctx); err != nil {
		return err
	}
	p.CloseDialog()
	return nil
}

// SubmitEdit validates the buffer and updates the product under edit.
func (p *ProductsController) SubmitEdit(ctx context.Context) error {
	p.mu.Lock()
	form := p.form
	editing := p.editing
	p.mu.Unlock()

	if editing == nil {
		return ErrNoSelection
	}
	if errs := validate.Struct(form); validate.HasErrors(errs) {
		p.mu.Lock()
		p.formErrs = errs
		p.mu.Unlock()
		return ErrValidation
	}

	prod := form.toProduct()
	prod.ID = editing.ID
	prod.PhotoPath = editing.PhotoPath

	if _, err := p.products.Update(ctx, editing.ID, prod); err != nil {
		p.setErr(err)
		return err
	}

	if err := p.refresh(ctx); err != nil {
		return err
	}
	p.CloseDialog()
	return nil
}

// ConfirmDelete deletes the product selected in the delete dialog.
func (p *ProductsController) ConfirmDelete(ctx context.Context) error {
	p.mu.Lock()
	editing := p.editing
	p.mu.Unlock()

	if editing == nil {
		return ErrNoSelection
	}

	if err := p.products.Delete(ctx, editing.ID); err != nil {
		p.setErr(err)
		return err
	}

	if err := p.refresh(ctx); err != nil {
		return err
	}
	p.CloseDialog()
	return nil
}

// SubmitDiscount applies the pending discount to its product or category.
func (p *ProductsController) SubmitDiscount(ctx context.Context) error {
	p.mu.Lock()
	toCategory := p.discountCategory
	target := p.discountTarget
	name := p.discountName
	percent := p.discountPercent
	p.mu.Unlock()

	var err error
	if toCategory {
		_, err = p.products.ApplyDiscountToCategory(ctx, name, percent)
	} else {
		_, err = p.products.ApplyDiscount(ctx, target, percent)
	}
	if err != nil {
		p.setErr(err)
		return err
	}

	if err := p.refresh(ctx); err != nil {
		return err
	}
	p.CloseDialog()
	return nil
}

// ChangeStatus updates a product's status directly from the table row.
func (p *ProductsController) ChangeStatus(ctx context.Context, id int64, status string) error {
	if _, err := p.products.UpdateStatus(ctx, id, status); err != nil {
		p.setErr(err)
		return err
	}
	return p.refresh(ctx)
}
