package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/models"
)

// Claim is a paid order reserved for stock settlement.
type Claim struct {
	OrderID      uint
	RestaurantID uint
	Lines        []stock.OrderLine
}

// ClaimSettlement marks a paid order as settled and returns its lines. Only
// one caller can claim an order; later callers get ErrOrderAlreadySettled.
func (s *Store) ClaimSettlement(ctx context.Context, orderID uint) (Claim, error) {
	if err := s.ensure(); err != nil {
		return Claim{}, err
	}

	var claim Claim
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !order.IsPaid() {
			return ErrOrderNotPaid
		}

		result := tx.Model(&models.Order{}).
			Where("id = ? AND stock_settled_at IS NULL", order.ID).
			Update("stock_settled_at", time.Now().UTC())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderAlreadySettled
		}

		claim = Claim{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			Lines:        orderLines(order.Items),
		}
		return nil
	})
	return claim, err
}

// ReleaseSettlement clears a claim so the order can be settled again.
func (s *Store) ReleaseSettlement(ctx context.Context, orderID uint) error {
	if err := s.ensure(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("stock_settled_at", nil).Error
}

func orderLines(items []models.OrderItem) []stock.OrderLine {
	lines := make([]stock.OrderLine, 0, len(items))
	for _, item := range items {
		line := stock.OrderLine{Quantity: item.Quantity}
		if item.RecipeID != nil {
			id := stock.RecipeID(*item.RecipeID)
			line.RecipeID = &id
		}
		if item.GroupID != nil {
			line.GroupID = strings.TrimSpace(*item.GroupID)
		}
		lines = append(lines, line)
	}
	return lines
}
