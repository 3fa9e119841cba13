package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/recognizer"
)

var estimateServings float64

var estimateCmd = &cobra.Command{
	Use:   "estimate <food name>",
	Short: "Estimate calories and macros for a food by name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEstimate,
}

func init() {
	estimateCmd.Flags().Float64Var(&estimateServings, "servings", 1, "Number of servings")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	if estimateServings <= 0 {
		return fmt.Errorf("--servings must be positive")
	}

	name := strings.Join(args, " ")
	table := recognizer.DefaultTable()

	matched := "no match, generic meal"
	if food, ok := table.Lookup(name); ok {
		matched = food.Name
	}
	m := table.Estimate(name, estimateServings)

	fmt.Printf("%s x%.1f (%s)\n", name, estimateServings, matched)
	fmt.Printf("  %.0f kcal  C %.0fg  P %.0fg  F %.0fg\n", m.Calories, m.Carbs, m.Protein, m.Fat)
	return nil
}
