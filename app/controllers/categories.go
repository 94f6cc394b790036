package controllers

import (
	"context"
	"strings"
	"sync"

	"github.com/shashiranjanraj/storeadmin/app/models"
	"github.com/shashiranjanraj/storeadmin/app/services"
	"github.com/shashiranjanraj/storeadmin/pkg/cache"
	"github.com/shashiranjanraj/storeadmin/pkg/collection"
	"github.com/shashiranjanraj/storeadmin/pkg/validate"
)

// CategoryForm is the add/edit form buffer.
type CategoryForm struct {
	Name        string `json:"name"        validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"nullable,max=2000"`
}

// CategoriesController drives the categories page. The list is small enough
// that it is fetched whole and searched client-side.
type CategoriesController struct {
	categories *services.CategoryService
	cache      *cache.Cache

	mu sync.Mutex

	search string
	all    []models.Category

	loadSeq uint64

	open     dialog
	form     CategoryForm
	formErrs map[string]string
	editing  *models.Category
	lastErr  error
}

func NewCategoriesController(categories *services.CategoryService, c *cache.Cache) *CategoriesController {
	return &CategoriesController{categories: categories, cache: c}
}

// ── Loading ──────────────────────────────────────────────────────────────────

// Load fetches the category list (through the cache). Stale responses are
// dropped when a newer load has started.
func (cc *CategoriesController) Load(ctx context.Context) error {
	cc.mu.Lock()
	cc.loadSeq++
	seq := cc.loadSeq
	cc.mu.Unlock()

	key := cache.ListKey("categories", nil)

	var fetched []models.Category
	cached := cc.cache.Get(key, &fetched)
	if !cached {
		var err error
		fetched, err = cc.categories.List(ctx)
		if err != nil {
			cc.mu.Lock()
			cc.lastErr = err
			cc.mu.Unlock()
			return err
		}
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	if seq != cc.loadSeq {
		return nil
	}
	if !cached {
		_ = cc.cache.Set(key, fetched)
	}
	cc.all = fetched
	cc.lastErr = nil
	return nil
}

func (cc *CategoriesController) refresh(ctx context.Context) error {
	_ = cc.cache.Forget("categories")
	// Category changes ripple into product rows (category names, discounts),
	// so the product lists go stale with them.
	_ = cc.cache.Forget("products")
	return cc.Load(ctx)
}

// ── Search ───────────────────────────────────────────────────────────────────

// SetSearch updates the search term.
func (cc *CategoriesController) SetSearch(term string) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.search = term
}

// Visible returns categories whose name contains the search term,
// case-insensitively.
func (cc *CategoriesController) Visible() []models.Category {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(cc.search))
	if term == "" {
		return append([]models.Category(nil), cc.all...)
	}
	return collection.Filter(cc.all, func(c models.Category) bool {
		return strings.Contains(strings.ToLower(c.Name), term)
	})
}

// ── Dialogs ──────────────────────────────────────────────────────────────────

// OpenAdd opens the add dialog with an empty buffer.
func (cc *CategoriesController) OpenAdd() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.open = dialogAdd
	cc.form = CategoryForm{}
	cc.formErrs = nil
	cc.editing = nil
}

// OpenEdit opens the edit dialog pre-filled from an existing category.
func (cc *CategoriesController) OpenEdit(cat models.Category) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.open = dialogEdit
	cc.editing = &cat
	cc.formErrs = nil
	cc.form = CategoryForm{Name: cat.Name, Description: cat.Description}
}

// OpenDelete opens the delete confirmation.
func (cc *CategoriesController) OpenDelete(cat models.Category) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.open = dialogDelete
	cc.editing = &cat
}

// CloseDialog dismisses the open dialog and resets the buffer.
func (cc *CategoriesController) CloseDialog() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.open = dialogNone
	cc.form = CategoryForm{}
	cc.formErrs = nil
	cc.editing = nil
}

// DialogOpen reports whether any dialog is currently open.
func (cc *CategoriesController) DialogOpen() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.open != dialogNone
}

// Form returns the current form buffer.
func (cc *CategoriesController) Form() CategoryForm {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.form
}

// SetForm replaces the form buffer.
func (cc *CategoriesController) SetForm(f CategoryForm) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.form = f
}

// FormErrors returns per-field validation messages from the last submit.
func (cc *CategoriesController) FormErrors() map[string]string {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.formErrs
}

// Err returns the last surfaced error.
func (cc *CategoriesController) Err() error {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.lastErr
}

// ── Mutations ────────────────────────────────────────────────────────────────

// SubmitAdd validates and creates a category. A duplicate name surfaces as
// a Validation error from the backend and keeps the dialog open.
func (cc *CategoriesController) SubmitAdd(ctx context.Context) error {
	cc.mu.Lock()
	form := cc.form
	cc.mu.Unlock()

	if errs := validate.Struct(form); validate.HasErrors(errs) {
		cc.mu.Lock()
		cc.formErrs = errs
		cc.mu.Unlock()
		return ErrValidation
	}

	req := models.CategoryRequest{Name: form.Name, Description: form.Description}
	if _, err := cc.categories.Create(ctx, req); err != nil {
		cc.mu.Lock()
		cc.lastErr = err
		cc.mu.Unlock()
		return err
	}

	if err := cc.refresh(ctx); err != nil {
		return err
	}
	cc.CloseDialog()
	return nil
}

// SubmitEdit validates and updates the category under edit.
func (cc *CategoriesController) SubmitEdit(ctx context.Context) error {
	cc.mu.Lock()
	form := cc.form
	editing := cc.editing
	cc.mu.Unlock()

	if editing == nil {
		return ErrNoSelection
	}
	if errs := validate.Struct(form); validate.HasErrors(errs) {
		cc.mu.Lock()
		cc.formErrs = errs
		cc.mu.Unlock()
		return ErrValidation
	}

	req := models.CategoryRequest{ID: editing.ID, Name: form.Name, Description: form.Description}
	if _, err := cc.categories.Update(ctx, editing.ID, req); err != nil {
		cc.mu.Lock()
		cc.lastErr = err
		cc.mu.Unlock()
		return err
	}

	if err := cc.refresh(ctx); err != nil {
		return err
	}
	cc.CloseDialog()
	return nil
}

// ConfirmDelete deletes the selected category. The backend may refuse when
// products are still assigned; that refusal surfaces as a Validation error
// and the confirmation stays open.
func (cc *CategoriesController) ConfirmDelete(ctx context.Context) error {
	cc.mu.Lock()
	editing := cc.editing
	cc.mu.Unlock()

	if editing == nil {
		return ErrNoSelection
	}

	if err := cc.categories.Delete(ctx, editing.ID); err != nil {
		cc.mu.Lock()
		cc.lastErr = err
		cc.mu.Unlock()
		return err
	}

	if err := cc.refresh(ctx); err != nil {
		return err
	}
	cc.CloseDialog()
	return nil
}
