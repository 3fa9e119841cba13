package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/nutrition"
)

var (
	statsPeriod string
	statsJSON   bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show calorie trends and macro distribution",
	Long:  `Shows per-day calories over the last 7 (daily), 30 (weekly) or 90 (monthly) days.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsPeriod, "period", "daily", "Period: daily, weekly or monthly")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the series as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	period, err := nutrition.ParsePeriod(statsPeriod)
	if err != nil {
		return err
	}

	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.entries.List()
	today := time.Now()
	start := today.AddDate(0, 0, -(period.Days() - 1))
	target := a.goals.Get().TargetCalories

	points := nutrition.Series(entries, target, period, today)
	shares := nutrition.MacroDistribution(nutrition.FilterByRange(entries, start, today))

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"period":  period,
			"series":  points,
			"macros":  shares,
			"average": nutrition.AverageCalories(points),
		})
	}

	fmt.Printf("Calories from %s to %s (goal %d kcal)\n", nutrition.DayKey(start), nutrition.DayKey(today), target)
	fmt.Println("----------------------------------------------------------")
	for _, p := range points {
		fmt.Printf("%s  %6.0f  %s\n", p.Date, p.Calories, bar(p.Calories, float64(target), 40))
	}
	fmt.Println("----------------------------------------------------------")
	fmt.Printf("Average: %.0f kcal/day\n", nutrition.AverageCalories(points))

	fmt.Println("\nMacro distribution:")
	for _, s := range shares {
		fmt.Printf("  %-8s %8.1f g  %5.1f%%\n", s.Name, s.Grams, s.Share*100)
	}
	return nil
}

// bar draws value as a row of # scaled so that goal fills width; overflow is marked with +
func bar(value, goal float64, width int) string {
	if goal <= 0 || value <= 0 {
		return ""
	}
	n := int(value / goal * float64(width))
	if n > width {
		return strings.Repeat("#", width) + "+"
	}
	return strings.Repeat("#", n)
}
