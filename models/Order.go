package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	OrderStatusOpen      = "open"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// Order is a customer order. StockSettledAt is set once the stock for the order
// has been claimed for deduction and guards against replays.
type Order struct {
	gorm.Model
	RestaurantID   uint        `gorm:"not null;index" json:"restaurant_id"`
	Status         string      `gorm:"type:varchar(32);not null;default:open" json:"status"`
	PaidAt         *time.Time  `json:"paid_at,omitempty"`
	StockSettledAt *time.Time  `json:"stock_settled_at,omitempty"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// IsPaid reports whether the order reached the paid state.
func (o Order) IsPaid() bool {
	return strings.EqualFold(strings.TrimSpace(o.Status), OrderStatusPaid)
}

// OrderItem is one sold line. Lines sharing a GroupID are one logical item split
// across preparation stations.
type OrderItem struct {
	gorm.Model
	OrderID  uint    `gorm:"not null;index" json:"order_id"`
	RecipeID *uint   `json:"recipe_id,omitempty"`
	Quantity float64 `gorm:"not null" json:"quantity"`
	GroupID  *string `gorm:"type:varchar(64)" json:"group_id,omitempty"`
	Station  string  `gorm:"type:varchar(64)" json:"station,omitempty"`
}
