package models

import (
	"gorm.io/gorm"
)

// Recipe is a sellable or composable menu item. A recipe with SourceIngredientID
// set is a proxy: one sold unit consumes exactly one unit of that ingredient.
type Recipe struct {
	gorm.Model
	RestaurantID       uint               `gorm:"not null;index" json:"restaurant_id"`
	Name               string             `gorm:"not null" json:"name"`
	Price              float64            `gorm:"not null;default:0" json:"price"`
	SourceIngredientID *uint              `json:"source_ingredient_id,omitempty"`
	IsSubRecipe        bool               `gorm:"not null;default:false" json:"is_sub_recipe"`
	IsAvailable        bool               `gorm:"not null;default:true" json:"is_available"`
	Ingredients        []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients,omitempty"`
	SubRecipes         []RecipeSubRecipe  `gorm:"foreignKey:ParentRecipeID" json:"sub_recipes,omitempty"`

	SourceIngredient *Ingredient `gorm:"foreignKey:SourceIngredientID" json:"source_ingredient,omitempty"`
}

// IsProxy reports whether the recipe is a thin sales wrapper around one ingredient.
func (r Recipe) IsProxy() bool {
	return r.SourceIngredientID != nil && *r.SourceIngredientID != 0
}
