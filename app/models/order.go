package models

// Canonical order status values used on write paths. Read-side comparisons
// go through StatusEquals.
const (
	OrderPending    = "PENDING"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
)

// OrderStatuses lists the canonical order statuses in display order.
var OrderStatuses = []string{
	OrderPending,
	OrderProcessing,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

// ValidOrderStatus reports whether s names a known order status in any
// casing.
func ValidOrderStatus(s string) bool {
	for _, known := range OrderStatuses {
		if StatusEquals(s, known) {
			return true
		}
	}
	return false
}

// CustomerInfo is the customer snapshot embedded in an order.
type CustomerInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OrderItem is a denormalized line-item snapshot, not a live reference to
// a Product. The unit price is frozen at order time.
type OrderItem struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is the order DTO. Date, time, and total arrive as backend-formatted
// strings and are displayed unparsed.
type Order struct {
	OrderID      string       `json:"orderId"`
	Status       string       `json:"status"`
	Date         string       `json:"date"`
	Time         string       `json:"time"`
	CustomerInfo CustomerInfo `json:"customerInfo"`
	Items        []OrderItem  `json:"items"`
	Total        string       `json:"total"`
}

// OrderPage is the Spring-style pageable envelope returned by the orders
// list endpoint.
type OrderPage struct {
	Content       []Order `json:"content"`
	TotalElements int64   `json:"totalElements"`
	TotalPages    int     `json:"totalPages"`
	Size          int     `json:"size"`
	Number        int     `json:"number"`
}
