package main

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/koresolucoes/KoreGastro2-sub002/internal/stock"
	"github.com/koresolucoes/KoreGastro2-sub002/internal/views/pages"
)

func parseID(arg, what string) (uint, error) {
	value, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || value == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return uint(value), nil
}

// ingredientNames maps ids to display names for one restaurant.
func ingredientNames(s *session, cmd *cobra.Command, restaurantID uint) (map[stock.IngredientID]string, error) {
	snapshot, err := s.store.Snapshot(cmd.Context(), restaurantID)
	if err != nil {
		return nil, err
	}
	names := make(map[stock.IngredientID]string, len(snapshot.Stocks))
	for _, level := range snapshot.Stocks {
		names[level.ID] = level.Name
	}
	return names, nil
}

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <recipe-id>",
		Short: "Print the raw ingredients one unit of a recipe consumes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeID, err := parseID(args[0], "recipe")
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			reqs, err := s.engine.Requirements(cmd.Context(), opts.restaurant, stock.RecipeID(recipeID))
			if err != nil {
				return err
			}
			names, err := ingredientNames(s, cmd, opts.restaurant)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INGREDIENT\tID\tQUANTITY")
			for _, id := range reqs.IDs() {
				fmt.Fprintf(w, "%s\t%d\t%s\n", names[id], id, pages.FormatReportQuantity(reqs[id], ""))
			}
			return w.Flush()
		},
	}
}

func newAvailableCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "available <recipe-id>",
		Short: "Report whether one unit of a recipe can be produced from current stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipeID, err := parseID(args[0], "recipe")
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ok, err := s.engine.HasStock(cmd.Context(), opts.restaurant, stock.RecipeID(recipeID))
			if err != nil {
				return err
			}
			if ok {
				fmt.Fprintf(cmd.OutOrStdout(), "recipe %d: in stock\n", recipeID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "recipe %d: out of stock\n", recipeID)
			}
			return nil
		},
	}
}

func newReportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print ingredient levels and how many units of each menu item stock covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			report, err := s.engine.Report(cmd.Context(), opts.restaurant)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INGREDIENT\tSTOCK\tMINIMUM\tSTATUS")
			for _, level := range report.Ingredients {
				status := "ok"
				if level.Low {
					status = "LOW"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", level.Name,
					pages.FormatReportQuantity(level.Quantity, level.Unit),
					pages.FormatReportQuantity(level.MinStock, level.Unit),
					status)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "RECIPE\tPRODUCIBLE\t\t")
			for _, capacity := range report.Recipes {
				fmt.Fprintf(w, "%s\t%s\t\t\n", capacity.Name, pages.FormatCapacity(capacity))
			}
			return w.Flush()
		},
	}
}

func newSettleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "settle <order-id>",
		Short: "Deduct the stock consumed by a paid order and wait for the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := parseID(args[0], "order")
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}

			claim, err := s.store.ClaimSettlement(ctx, orderID)
			if err != nil {
				return err
			}
			if claim.RestaurantID != opts.restaurant {
				return errors.Join(
					fmt.Errorf("order %d belongs to restaurant %d", orderID, claim.RestaurantID),
					s.store.ReleaseSettlement(ctx, orderID),
				)
			}

			settlement, reports, err := s.engine.Settle(ctx, claim.RestaurantID, fmt.Sprintf("order %d", orderID), claim.Lines)
			if err != nil {
				return errors.Join(err, s.store.ReleaseSettlement(ctx, orderID))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pass %s: %d lines counted, %d duplicates, %d ignored\n",
				settlement.PassID, settlement.Plan.Counted, settlement.Plan.Duplicates, settlement.Plan.Ignored)

			report := <-reports
			for _, result := range report.Results {
				status := "ok"
				switch {
				case result.Skipped:
					status = "skipped"
				case !result.OK():
					status = result.Err.Error()
				}
				fmt.Fprintf(out, "  ingredient %d  -%s  %s\n", result.IngredientID, pages.FormatReportQuantity(result.Quantity, ""), status)
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d deductions failed", report.Failed, len(report.Results))
			}
			return nil
		},
	}
}
