package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/models"
)

// Snapshot implements stock.SnapshotSource. The four reads share one
// transaction so a pass sees a consistent view.
func (s *Store) Snapshot(ctx context.Context, restaurantID uint) (stock.Snapshot, error) {
	if err := s.ensure(); err != nil {
		return stock.Snapshot{}, err
	}

	var (
		recipes     []models.Recipe
		ingredients []models.RecipeIngredient
		subRecipes  []models.RecipeSubRecipe
		stocks      []models.Ingredient
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("restaurant_id = ?", restaurantID).Order("id").Find(&recipes).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurantID).Order("id").Find(&ingredients).Error; err != nil {
			return err
		}
		if err := tx.Where("restaurant_id = ?", restaurantID).Order("id").Find(&subRecipes).Error; err != nil {
			return err
		}
		return tx.Where("restaurant_id = ?", restaurantID).Order("id").Find(&stocks).Error
	})
	if err != nil {
		return stock.Snapshot{}, err
	}

	snapshot := stock.Snapshot{
		Recipes:     make([]stock.Recipe, 0, len(recipes)),
		Ingredients: make([]stock.IngredientEdge, 0, len(ingredients)),
		SubRecipes:  make([]stock.SubRecipeEdge, 0, len(subRecipes)),
		Stocks:      make([]stock.IngredientStock, 0, len(stocks)),
	}
	for _, recipe := range recipes {
		snapshot.Recipes = append(snapshot.Recipes, toStockRecipe(recipe))
	}
	for _, edge := range ingredients {
		snapshot.Ingredients = append(snapshot.Ingredients, stock.IngredientEdge{
			RecipeID:     stock.RecipeID(edge.RecipeID),
			IngredientID: stock.IngredientID(edge.IngredientID),
			Quantity:     edge.Quantity,
		})
	}
	for _, edge := range subRecipes {
		snapshot.SubRecipes = append(snapshot.SubRecipes, stock.SubRecipeEdge{
			ParentID: stock.RecipeID(edge.ParentRecipeID),
			ChildID:  stock.RecipeID(edge.ChildRecipeID),
			Quantity: edge.Quantity,
		})
	}
	for _, ingredient := range stocks {
		snapshot.Stocks = append(snapshot.Stocks, stock.IngredientStock{
			ID:       stock.IngredientID(ingredient.ID),
			Name:     ingredient.Name,
			Unit:     ingredient.Unit,
			Quantity: ingredient.StockQuantity,
			MinStock: ingredient.MinStock,
		})
	}
	return snapshot, nil
}

func toStockRecipe(recipe models.Recipe) stock.Recipe {
	converted := stock.Recipe{
		ID:          stock.RecipeID(recipe.ID),
		Name:        recipe.Name,
		Price:       recipe.Price,
		IsSubRecipe: recipe.IsSubRecipe,
		IsAvailable: recipe.IsAvailable,
	}
	if recipe.IsProxy() {
		source := stock.IngredientID(*recipe.SourceIngredientID)
		converted.SourceIngredientID = &source
	}
	return converted
}
