package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/recognizer"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

var (
	updateName       string
	updateServings   float64
	updateCalories   float64
	updateCarbs      float64
	updateProtein    float64
	updateFat        float64
	updateDate       string
	updateTime       string
	updateClearPhoto bool
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a food entry",
	Long: `Updates the given fields of an entry. Changing --servings alone rescales the
calories and macros proportionally.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "Food name")
	updateCmd.Flags().Float64Var(&updateServings, "servings", 0, "Number of servings")
	updateCmd.Flags().Float64Var(&updateCalories, "calories", 0, "Calories (kcal)")
	updateCmd.Flags().Float64Var(&updateCarbs, "carbs", 0, "Carbohydrates (g)")
	updateCmd.Flags().Float64Var(&updateProtein, "protein", 0, "Protein (g)")
	updateCmd.Flags().Float64Var(&updateFat, "fat", 0, "Fat (g)")
	updateCmd.Flags().StringVar(&updateDate, "date", "", "Date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updateTime, "time", "", "Time of day (HH:MM)")
	updateCmd.Flags().BoolVar(&updateClearPhoto, "clear-photo", false, "Remove the attached photo")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]

	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	current, ok := a.entries.Get(id)
	if !ok {
		fmt.Printf("No entry with id %s\n", id)
		return nil
	}

	patch := buildPatch(cmd, current)
	if patch.IsEmpty() {
		fmt.Println("Nothing to update")
		return nil
	}

	// Validate the merged result before writing
	if err := patch.Apply(current).Validate(); err != nil {
		return err
	}

	outcome, err := a.entries.Update(id, patch)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	reportOutcome(outcome)

	updated, _ := a.entries.Get(id)
	fmt.Printf("Updated %s: %s x%.1f, %.0f kcal\n", updated.ID, updated.FoodName, updated.Servings, updated.Calories)
	return nil
}

// buildPatch collects the flags that were set. A servings change without
// explicit macros rescales the current values.
func buildPatch(cmd *cobra.Command, current models.FoodEntry) models.EntryPatch {
	flags := cmd.Flags()
	var patch models.EntryPatch

	if flags.Changed("name") {
		patch.FoodName = &updateName
	}
	if flags.Changed("date") {
		patch.Date = &updateDate
	}
	if flags.Changed("time") {
		patch.Time = &updateTime
	}
	if updateClearPhoto {
		empty := ""
		patch.ImageURL = &empty
	}

	if flags.Changed("servings") {
		patch.Servings = &updateServings
		if updateServings > 0 {
			scaled := recognizer.Rescale(recognizer.Macros{
				Calories: current.Calories,
				Carbs:    current.Carbs,
				Protein:  current.Protein,
				Fat:      current.Fat,
			}, current.Servings, updateServings)
			patch.Calories = &scaled.Calories
			patch.Carbs = &scaled.Carbs
			patch.Protein = &scaled.Protein
			patch.Fat = &scaled.Fat
		}
	}

	if flags.Changed("calories") {
		patch.Calories = &updateCalories
	}
	if flags.Changed("carbs") {
		patch.Carbs = &updateCarbs
	}
	if flags.Changed("protein") {
		patch.Protein = &updateProtein
	}
	if flags.Changed("fat") {
		patch.Fat = &updateFat
	}
	return patch
}
