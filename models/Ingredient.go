package models

import (
	"gorm.io/gorm"
)

type Ingredient struct {
	gorm.Model
	RestaurantID  uint    `gorm:"not null;index" json:"restaurant_id"`
	Name          string  `gorm:"not null" json:"name"`
	Unit          string  `gorm:"not null;default:un" json:"unit"`
	StockQuantity float64 `gorm:"not null;default:0" json:"stock_quantity"`
	MinStock      float64 `gorm:"not null;default:0" json:"min_stock"`
}
