package models

import (
	"gorm.io/gorm"
)

// RecipeIngredient is a direct usage of a raw ingredient by a recipe.
type RecipeIngredient struct {
	gorm.Model
	RestaurantID uint    `gorm:"not null;index" json:"restaurant_id"`
	RecipeID     uint    `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint    `gorm:"not null" json:"ingredient_id"`
	Quantity     float64 `gorm:"not null" json:"quantity"` // per unit of the recipe

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}

// RecipeSubRecipe nests a child recipe inside a parent.
type RecipeSubRecipe struct {
	gorm.Model
	RestaurantID   uint    `gorm:"not null;index" json:"restaurant_id"`
	ParentRecipeID uint    `gorm:"not null;index" json:"parent_recipe_id"`
	ChildRecipeID  uint    `gorm:"not null" json:"child_recipe_id"`
	Quantity       float64 `gorm:"not null" json:"quantity"`

	ChildRecipe *Recipe `gorm:"foreignKey:ChildRecipeID" json:"child_recipe,omitempty"`
}
