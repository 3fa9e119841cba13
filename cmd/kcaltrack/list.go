package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/nutrition"
	"github.com/jgoulah/kcaltrack/pkg/models"
)

var (
	listSince string
	listUntil string
	listDate  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored food entries",
	Long:  `Displays stored food entries grouped by day, newest day first.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Only show this day (YYYY-MM-DD, today or Nd)")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only show entries since this date (YYYY-MM-DD or Nd)")
	listCmd.Flags().StringVar(&listUntil, "until", "", "Only show entries until this date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := selectEntries(a.entries.List(), listDate, listSince, listUntil)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	goal := a.goals.Get()
	groups := nutrition.GroupByDate(entries)
	for _, day := range nutrition.Days(groups) {
		printDay(day, groups[day], goal.TargetCalories)
	}
	return nil
}

// selectEntries applies the --date or --since/--until filters
func selectEntries(entries []models.FoodEntry, date, since, until string) ([]models.FoodEntry, error) {
	if date != "" {
		day, err := parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parsing --date: %w", err)
		}
		return nutrition.FilterByDate(entries, day), nil
	}
	if since == "" && until == "" {
		return entries, nil
	}

	start := time.Time{}
	end := time.Now().AddDate(100, 0, 0)
	var err error
	if since != "" {
		if start, err = parseDate(since); err != nil {
			return nil, fmt.Errorf("parsing --since date: %w", err)
		}
	}
	if until != "" {
		if end, err = parseDate(until); err != nil {
			return nil, fmt.Errorf("parsing --until date: %w", err)
		}
	}
	return nutrition.FilterByRange(entries, start, end), nil
}

// printDay prints one day's entries and totals
func printDay(day string, entries []models.FoodEntry, target int) {
	fmt.Printf("\n%s\n", day)
	fmt.Println("------------------------------------------------------------------")
	fmt.Printf("%-5s  %-20s  %5s  %7s  %6s  %6s  %6s\n", "Time", "Food", "Serv", "kcal", "Carbs", "Prot", "Fat")
	fmt.Println("------------------------------------------------------------------")

	for _, e := range nutrition.SortForDisplay(entries) {
		photo := ""
		if e.ImageURL != "" {
			photo = " *"
		}
		fmt.Printf("%-5s  %-20s  %5.1f  %7.0f  %6.1f  %6.1f  %6.1f%s\n",
			e.Time, e.FoodName, e.Servings, e.Calories, e.Carbs, e.Protein, e.Fat, photo)
	}

	s := nutrition.Summarize(entries, target)
	fmt.Println("------------------------------------------------------------------")
	fmt.Printf("Total: %.0f / %d kcal (%.1f%%, %s)  C %.1fg  P %.1fg  F %.1fg\n",
		s.TotalCalories, target, s.GoalProgress, nutrition.GoalStatus(s.GoalProgress),
		s.TotalCarbs, s.TotalProtein, s.TotalFat)
}
