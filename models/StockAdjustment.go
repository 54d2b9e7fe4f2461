package models

import (
	"gorm.io/gorm"
)

// StockAdjustment is one journal row written by the stock ledger for every
// applied delta.
type StockAdjustment struct {
	gorm.Model
	RestaurantID      uint    `gorm:"not null;index" json:"restaurant_id"`
	IngredientID      uint    `gorm:"not null;index" json:"ingredient_id"`
	Delta             float64 `gorm:"not null" json:"delta"`
	ResultingQuantity float64 `gorm:"not null" json:"resulting_quantity"`
	Reason            string  `gorm:"type:text" json:"reason"`
	BatchID           string  `gorm:"type:varchar(36);index" json:"batch_id"`
}
