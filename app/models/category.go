package models

// CategoryRequest is the write-side category shape. The product list is
// never sent on writes; the backend manages assignment itself.
type CategoryRequest struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Category is the read-side category shape. Products is populated on list
// and detail responses only.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Products    []Product `json:"products"`
}
