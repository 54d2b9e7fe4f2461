package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/db"
	applog "github.com/koresolucoes/KoreGastro2-sub002/internal/log"
	"github.com/koresolucoes/KoreGastro2-sub002/models"
)

// RestaurantID scopes every seeded row.
const RestaurantID uint = 1

// Open returns an empty, migrated in-memory sqlite database private to the caller.
func Open(ctx context.Context) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:koregastro-%s?mode=memory&cache=shared", uuid.NewString())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	// sqlite shared-cache tables lock under concurrent writers.
	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(database.WithContext(ctx)); err != nil {
		return nil, err
	}
	return database, nil
}

// New returns an in-memory sqlite database seeded with a small burger menu.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := Open(ctx)
	if err != nil {
		return nil, err
	}
	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")
	tx := database.WithContext(ctx)

	bun := models.Ingredient{RestaurantID: RestaurantID, Name: "Brioche bun", Unit: "un", StockQuantity: 40, MinStock: 20}
	beef := models.Ingredient{RestaurantID: RestaurantID, Name: "Ground beef", Unit: "kg", StockQuantity: 6, MinStock: 2}
	cheddar := models.Ingredient{RestaurantID: RestaurantID, Name: "Cheddar slice", Unit: "un", StockQuantity: 12, MinStock: 30}
	mayo := models.Ingredient{RestaurantID: RestaurantID, Name: "Mayonnaise", Unit: "kg", StockQuantity: 1.5, MinStock: 0.5}
	garlic := models.Ingredient{RestaurantID: RestaurantID, Name: "Garlic", Unit: "kg", StockQuantity: 0.4}
	cola := models.Ingredient{RestaurantID: RestaurantID, Name: "Cola 350ml can", Unit: "un", StockQuantity: 24, MinStock: 12}

	for _, ingredient := range []*models.Ingredient{&bun, &beef, &cheddar, &mayo, &garlic, &cola} {
		if err := tx.Create(ingredient).Error; err != nil {
			return err
		}
	}

	patty := models.Recipe{RestaurantID: RestaurantID, Name: "Beef patty 150g", IsSubRecipe: true, IsAvailable: true}
	aioli := models.Recipe{RestaurantID: RestaurantID, Name: "Garlic aioli", IsSubRecipe: true, IsAvailable: true}
	burger := models.Recipe{RestaurantID: RestaurantID, Name: "Cheeseburger", Price: 32, IsAvailable: true}
	double := models.Recipe{RestaurantID: RestaurantID, Name: "Double cheeseburger", Price: 44, IsAvailable: true}
	colaRecipe := models.Recipe{RestaurantID: RestaurantID, Name: "Cola", Price: 7, SourceIngredientID: &cola.ID, IsAvailable: true}
	note := models.Recipe{RestaurantID: RestaurantID, Name: "Parsley garnish", Price: 0, IsAvailable: true}

	for _, recipe := range []*models.Recipe{&patty, &aioli, &burger, &double, &colaRecipe, &note} {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
	}

	edges := []models.RecipeIngredient{
		{RestaurantID: RestaurantID, RecipeID: patty.ID, IngredientID: beef.ID, Quantity: 0.15},
		{RestaurantID: RestaurantID, RecipeID: aioli.ID, IngredientID: mayo.ID, Quantity: 0.02},
		{RestaurantID: RestaurantID, RecipeID: aioli.ID, IngredientID: garlic.ID, Quantity: 0.002},
		{RestaurantID: RestaurantID, RecipeID: burger.ID, IngredientID: bun.ID, Quantity: 1},
		{RestaurantID: RestaurantID, RecipeID: burger.ID, IngredientID: cheddar.ID, Quantity: 1},
		{RestaurantID: RestaurantID, RecipeID: double.ID, IngredientID: bun.ID, Quantity: 1},
		{RestaurantID: RestaurantID, RecipeID: double.ID, IngredientID: cheddar.ID, Quantity: 2},
	}
	if err := tx.Create(&edges).Error; err != nil {
		return err
	}

	nested := []models.RecipeSubRecipe{
		{RestaurantID: RestaurantID, ParentRecipeID: burger.ID, ChildRecipeID: patty.ID, Quantity: 1},
		{RestaurantID: RestaurantID, ParentRecipeID: burger.ID, ChildRecipeID: aioli.ID, Quantity: 1},
		{RestaurantID: RestaurantID, ParentRecipeID: double.ID, ChildRecipeID: patty.ID, Quantity: 2},
		{RestaurantID: RestaurantID, ParentRecipeID: double.ID, ChildRecipeID: aioli.ID, Quantity: 1},
	}
	if err := tx.Create(&nested).Error; err != nil {
		return err
	}

	paidAt := time.Now().UTC()
	grill := "ticket-1-burger"
	order := models.Order{
		RestaurantID: RestaurantID,
		Status:       models.OrderStatusPaid,
		PaidAt:       &paidAt,
		Items: []models.OrderItem{
			{RecipeID: &burger.ID, Quantity: 1, GroupID: &grill, Station: "grill"},
			{RecipeID: &burger.ID, Quantity: 1, GroupID: &grill, Station: "cold"},
			{RecipeID: &colaRecipe.ID, Quantity: 2, Station: "bar"},
			{Quantity: 1, Station: "service"},
		},
	}
	if err := tx.Create(&order).Error; err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded", "orderID", order.ID)
	return nil
}
