package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/models"
)

var numberPattern = regexp.MustCompile(`[-+]?\d*[.,]?\d+`)

// ingredientRow is one parsed line of a stock count sheet. Nil fields were
// missing or unreadable on the sheet and leave the stored value alone.
type ingredientRow struct {
	Name     string
	Unit     string
	Quantity *float64
	MinStock *float64
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Upsert ingredients from a stock count sheet (Name, Unit, Stock, Minimum)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath := args[0]
			file, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("locate csv: %w", err)
			}
			defer file.Close()

			rows, err := readIngredientCSV(file)
			if err != nil {
				return fmt.Errorf("read csv: %w", err)
			}

			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			created, adjusted, err := importIngredients(cmd.Context(), s, opts.restaurant, rows, filepath.Base(csvPath))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d ingredients from %s (%d new, %d stock adjustments)\n",
				len(rows), filepath.Base(csvPath), created, adjusted)
			return nil
		},
	}
}

func readIngredientCSV(r io.Reader) ([]ingredientRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("csv is empty")
	}

	header := make(map[string]int, len(records[0]))
	for idx, key := range records[0] {
		header[strings.ToLower(strings.TrimSpace(key))] = idx
	}
	if _, ok := header["name"]; !ok {
		return nil, errors.New(`csv header must include a "name" column`)
	}
	field := func(row []string, key string) string {
		idx, ok := header[key]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rows := make([]ingredientRow, 0, len(records)-1)
	for _, record := range records[1:] {
		name := normalizeValue(field(record, "name"))
		if name == "" {
			continue
		}
		rows = append(rows, ingredientRow{
			Name:     name,
			Unit:     normalizeValue(field(record, "unit")),
			Quantity: optionalNumber(field(record, "stock")),
			MinStock: optionalNumber(field(record, "minimum")),
		})
	}
	return rows, nil
}

// importIngredients creates unknown ingredients and routes every stock change
// through the ledger so the journal explains the new levels.
func importIngredients(ctx context.Context, s *session, restaurantID uint, rows []ingredientRow, source string) (created, adjusted int, err error) {
	reason := "stock count " + source
	for idx, row := range rows {
		var ingredient models.Ingredient
		err := s.db.WithContext(ctx).
			Where("restaurant_id = ? AND lower(name) = ?", restaurantID, strings.ToLower(row.Name)).
			First(&ingredient).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ingredient = models.Ingredient{RestaurantID: restaurantID, Name: row.Name, Unit: firstNonEmpty(row.Unit, "un")}
			if row.MinStock != nil {
				ingredient.MinStock = *row.MinStock
			}
			if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
				return created, adjusted, fmt.Errorf("record %d (%s): create: %w", idx+1, row.Name, err)
			}
			created++
		case err != nil:
			return created, adjusted, fmt.Errorf("record %d (%s): %w", idx+1, row.Name, err)
		default:
			updates := map[string]any{}
			if row.Unit != "" {
				updates["unit"] = row.Unit
			}
			if row.MinStock != nil {
				updates["min_stock"] = *row.MinStock
			}
			if len(updates) > 0 {
				if err := s.db.WithContext(ctx).Model(&ingredient).Updates(updates).Error; err != nil {
					return created, adjusted, fmt.Errorf("record %d (%s): update: %w", idx+1, row.Name, err)
				}
			}
		}

		if row.Quantity == nil {
			continue
		}
		delta := *row.Quantity - ingredient.StockQuantity
		if math.Abs(delta) < 1e-9 {
			continue
		}
		if err := s.store.AdjustStock(ctx, stock.Adjustment{
			RestaurantID: restaurantID,
			IngredientID: stock.IngredientID(ingredient.ID),
			Delta:        delta,
			Reason:       reason,
		}); err != nil {
			return created, adjusted, fmt.Errorf("record %d (%s): adjust stock: %w", idx+1, row.Name, err)
		}
		adjusted++
	}
	return created, adjusted, nil
}

func normalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return ""
	}
	return value
}

// parseFirstNumber extracts the first number in value, accepting a decimal
// comma. ok is false when value holds no number.
func parseFirstNumber(value string) (parsed float64, ok bool) {
	value = normalizeValue(value)
	if value == "" {
		return 0, false
	}
	match := numberPattern.FindString(value)
	if match == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.Replace(match, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func optionalNumber(value string) *float64 {
	parsed, ok := parseFirstNumber(value)
	if !ok {
		return nil
	}
	return &parsed
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
