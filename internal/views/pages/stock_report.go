package pages

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/views/layout"
)

// FormatReportQuantity renders a quantity using up to three decimals and a trailing unit.
func FormatReportQuantity(value float64, unit string) string {
	formatted := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", value), "0"), ".")
	if formatted == "-0" {
		formatted = "0"
	}
	if unit == "" {
		return formatted
	}
	return formatted + " " + unit
}

// FormatReportDate renders the supplied time using a kitchen-friendly layout.
func FormatReportDate(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format("02 Jan 2006 15:04")
}

// FormatCapacity renders how many units of a recipe can be produced.
func FormatCapacity(c stock.RecipeCapacity) string {
	if c.Unbounded {
		return "unlimited"
	}
	return fmt.Sprintf("%d", c.Producible)
}

// StockReport renders the stock report as a full HTML page.
func StockReport(report stock.Report) templ.Component {
	title := fmt.Sprintf("Stock report · restaurant %d", report.RestaurantID)
	return layout.Layout(title, stockReportBody(report))
}

func stockReportBody(report stock.Report) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<main class="mx-auto max-w-5xl p-6"><h1 class="text-2xl font-semibold">Stock report</h1>`)
		b.WriteString(`<p class="text-sm text-slate-400">Generated ` + templ.EscapeString(FormatReportDate(report.GeneratedAt)) + `</p>`)

		b.WriteString(`<section id="ingredients"><h2 class="mt-6 text-lg">Ingredients</h2><table><thead><tr>`)
		b.WriteString(`<th>Ingredient</th><th>In stock</th><th>Minimum</th><th>Status</th></tr></thead><tbody>`)
		for _, level := range report.Ingredients {
			status, class := "ok", "text-emerald-400"
			if level.Low {
				status, class = "low", "text-rose-400"
			}
			fmt.Fprintf(&b, `<tr data-ingredient="%d"><td>%s</td><td>%s</td><td>%s</td><td class="%s">%s</td></tr>`,
				level.ID,
				templ.EscapeString(level.Name),
				templ.EscapeString(FormatReportQuantity(level.Quantity, level.Unit)),
				templ.EscapeString(FormatReportQuantity(level.MinStock, level.Unit)),
				class, status,
			)
		}
		b.WriteString(`</tbody></table></section>`)

		b.WriteString(`<section id="recipes"><h2 class="mt-6 text-lg">Menu capacity</h2><table><thead><tr>`)
		b.WriteString(`<th>Recipe</th><th>Producible</th><th>Limited by</th></tr></thead><tbody>`)
		names := make(map[stock.IngredientID]string, len(report.Ingredients))
		for _, level := range report.Ingredients {
			names[level.ID] = level.Name
		}
		for _, capacity := range report.Recipes {
			limiting := ""
			if !capacity.Unbounded && capacity.Limiting != 0 {
				limiting = names[capacity.Limiting]
			}
			fmt.Fprintf(&b, `<tr data-recipe="%d"><td>%s</td><td>%s</td><td>%s</td></tr>`,
				capacity.ID,
				templ.EscapeString(capacity.Name),
				FormatCapacity(capacity),
				templ.EscapeString(limiting),
			)
		}
		b.WriteString(`</tbody></table></section></main>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
