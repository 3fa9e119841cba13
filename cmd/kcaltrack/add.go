package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/errs"
	"github.com/jgoulah/kcaltrack/internal/recognizer"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

var (
	addName     string
	addServings float64
	addCalories float64
	addCarbs    float64
	addProtein  float64
	addFat      float64
	addDate     string
	addTime     string
	addPhoto    string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a food entry",
	Long: `Records a food entry. Macros not given on the command line are estimated
from the built-in food table by name. With --photo and no --name, the photo is
sent to the recognizer and the most confident match is used.`,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addName, "name", "", "Food name")
	addCmd.Flags().Float64Var(&addServings, "servings", 1, "Number of servings")
	addCmd.Flags().Float64Var(&addCalories, "calories", 0, "Calories (kcal)")
	addCmd.Flags().Float64Var(&addCarbs, "carbs", 0, "Carbohydrates (g)")
	addCmd.Flags().Float64Var(&addProtein, "protein", 0, "Protein (g)")
	addCmd.Flags().Float64Var(&addFat, "fat", 0, "Fat (g)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Date (YYYY-MM-DD or Nd, default today)")
	addCmd.Flags().StringVar(&addTime, "time", "", "Time of day (HH:MM, default now)")
	addCmd.Flags().StringVar(&addPhoto, "photo", "", "Photo file to attach and recognize")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	now := time.Now()
	day := now
	if addDate != "" {
		if day, err = parseDate(addDate); err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
	}
	clock := addTime
	if clock == "" {
		clock = now.Format(models.TimeLayout)
	}

	e := models.FoodEntry{
		Date:     day.Format(models.DateLayout),
		Time:     clock,
		FoodName: addName,
		Servings: addServings,
	}

	var macros recognizer.Macros
	if addPhoto != "" {
		image, err := os.ReadFile(addPhoto)
		if err != nil {
			return fmt.Errorf("reading photo: %w", err)
		}
		e.ImageURL = recognizer.EncodeDataURI(image, "")

		if e.FoodName == "" {
			best, err := recognizeBest(ctx, a.recognizer(), image, a.cfg.GetRecognizerTimeout())
			if err != nil {
				return withNameHint(err, addPhoto)
			}
			fmt.Printf("Recognized %s (%.0f%% confidence)\n", best.Name, best.Confidence*100)
			e.FoodName = best.Name
			macros = best.Macros.Scale(addServings)
		}
	}
	if e.FoodName == "" {
		return fmt.Errorf("--name or --photo is required")
	}
	if macros == (recognizer.Macros{}) {
		macros = recognizer.DefaultTable().Estimate(e.FoodName, addServings)
	}

	e.Calories = pick(cmd, "calories", addCalories, macros.Calories)
	e.Carbs = pick(cmd, "carbs", addCarbs, macros.Carbs)
	e.Protein = pick(cmd, "protein", addProtein, macros.Protein)
	e.Fat = pick(cmd, "fat", addFat, macros.Fat)

	stored, outcome, err := a.entries.Add(e)
	if err != nil {
		return fmt.Errorf("saving entry: %w", err)
	}
	reportOutcome(outcome)

	fmt.Printf("Added %s: %s x%.1f, %.0f kcal (C %.0fg / P %.0fg / F %.0fg)\n",
		stored.ID, stored.FoodName, stored.Servings, stored.Calories, stored.Carbs, stored.Protein, stored.Fat)
	if !a.kv.Durable() {
		fmt.Println("Warning: durable storage unavailable, this entry will be lost on exit")
	}
	return nil
}

// pick returns the flag value when it was set explicitly, otherwise the estimate
func pick(cmd *cobra.Command, flag string, value, estimate float64) float64 {
	if cmd.Flags().Changed(flag) {
		return value
	}
	return estimate
}

// recognizeBest runs recognition with a timeout and returns the most confident candidate
func recognizeBest(ctx context.Context, r recognizer.ImageRecognizer, image []byte, timeout time.Duration) (recognizer.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fmt.Println("Analyzing photo...")
	candidates, err := r.Recognize(ctx, image)
	if err != nil {
		return recognizer.Candidate{}, fmt.Errorf("recognizing photo: %w", err)
	}
	if len(candidates) == 0 {
		return recognizer.Candidate{}, fmt.Errorf("recognizing photo: %w: no food found", errs.ErrRecognition)
	}
	recognizer.SortByConfidence(candidates)
	return candidates[0], nil
}

// withNameHint tells the user how to log the photo without recognition
func withNameHint(err error, photo string) error {
	return fmt.Errorf("%w\nre-run with --name <food> --photo %s to use the food table estimate", err, photo)
}
