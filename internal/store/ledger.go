package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/models"
)

// AdjustStock implements stock.Ledger. The quantity update is a single
// relative UPDATE so concurrent adjustments never lose writes; the journal row
// commits with it.
func (s *Store) AdjustStock(ctx context.Context, adj stock.Adjustment) error {
	if err := s.ensure(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Ingredient{}).
			Where("id = ? AND restaurant_id = ?", uint(adj.IngredientID), adj.RestaurantID).
			Update("stock_quantity", gorm.Expr("stock_quantity + ?", adj.Delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrIngredientNotFound
		}

		var ingredient models.Ingredient
		if err := tx.Select("id", "stock_quantity").First(&ingredient, uint(adj.IngredientID)).Error; err != nil {
			return err
		}

		return tx.Create(&models.StockAdjustment{
			RestaurantID:      adj.RestaurantID,
			IngredientID:      uint(adj.IngredientID),
			Delta:             adj.Delta,
			ResultingQuantity: ingredient.StockQuantity,
			Reason:            adj.Reason,
			BatchID:           adj.BatchID,
		}).Error
	})
}

// Adjustments lists the journal rows written for one batch.
func (s *Store) Adjustments(ctx context.Context, batchID string) ([]models.StockAdjustment, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	var rows []models.StockAdjustment
	err := s.db.WithContext(ctx).Where("batch_id = ?", batchID).Order("ingredient_id").Find(&rows).Error
	return rows, err
}
