package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/nutrition"
)

var (
	summaryDate  string
	summaryWeek  bool
	summaryMonth bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show nutrition totals for a day, week or month",
	Long: `Shows calorie and macronutrient totals against the daily goal. With --week or
--month the goal is multiplied by the number of days in the period.`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "today", "Day to summarize (YYYY-MM-DD, today or Nd)")
	summaryCmd.Flags().BoolVar(&summaryWeek, "week", false, "Summarize the Monday-start week containing --date")
	summaryCmd.Flags().BoolVar(&summaryMonth, "month", false, "Summarize the month containing --date")
	summaryCmd.MarkFlagsMutuallyExclusive("week", "month")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	day, err := parseDate(summaryDate)
	if err != nil {
		return fmt.Errorf("parsing --date: %w", err)
	}

	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	all := a.entries.List()
	daily := a.goals.Get().TargetCalories

	start, end := day, day
	switch {
	case summaryWeek:
		start, end = nutrition.WeekBounds(day)
	case summaryMonth:
		start, end = nutrition.MonthBounds(day)
	}
	entries := nutrition.FilterByRange(all, start, end)
	days := daysBetween(start, end)
	target := daily * days

	s := nutrition.Summarize(entries, target)

	label := nutrition.DayKey(start)
	if days > 1 {
		label = fmt.Sprintf("%s to %s", nutrition.DayKey(start), nutrition.DayKey(end))
	}
	fmt.Printf("Summary for %s (%d entries)\n", label, len(entries))
	fmt.Println("----------------------------------------")
	fmt.Printf("Calories: %8.0f / %d kcal (%.1f%%, %s)\n", s.TotalCalories, target, s.GoalProgress, nutrition.GoalStatus(s.GoalProgress))
	fmt.Printf("Carbs:    %8.1f g\n", s.TotalCarbs)
	fmt.Printf("Protein:  %8.1f g\n", s.TotalProtein)
	fmt.Printf("Fat:      %8.1f g\n", s.TotalFat)
	if days > 1 {
		fmt.Printf("Average:  %8.0f kcal/day\n", s.TotalCalories/float64(days))
	}
	return nil
}

// daysBetween counts calendar days in [start, end]
func daysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
