package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/nutrition"
)

var calendarMonth string

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month calendar of goal progress",
	Long: `Prints a Monday-start month calendar. Each logged day is marked by goal
status: "." under 80%, "~" from 80% to under 100%, "*" at or above the goal.`,
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calendarMonth, "month", "", "Month to show (YYYY-MM, default current month)")
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(cmd *cobra.Command, args []string) error {
	month := time.Now()
	if calendarMonth != "" {
		t, err := time.ParseInLocation("2006-01", calendarMonth, time.Local)
		if err != nil {
			return fmt.Errorf("invalid month format: %s (use YYYY-MM)", calendarMonth)
		}
		month = t
	}

	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	target := a.goals.Get().TargetCalories
	days := nutrition.Calendar(nutrition.MonthEntries(a.entries.List(), month), target)

	start, end := nutrition.MonthBounds(month)
	fmt.Printf("%s (goal %d kcal)\n", start.Format("January 2006"), target)
	fmt.Println(" Mon  Tue  Wed  Thu  Fri  Sat  Sun")

	offset := (int(start.Weekday()) + 6) % 7
	for i := 0; i < offset; i++ {
		fmt.Print("     ")
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		mark := " "
		if cd, ok := days[nutrition.DayKey(d)]; ok {
			mark = statusMark(cd.Status)
		}
		fmt.Printf("  %2d%s", d.Day(), mark)
		if d.Weekday() == time.Sunday {
			fmt.Println()
		}
	}
	if end.Weekday() != time.Sunday {
		fmt.Println()
	}

	var logged, achieved int
	for _, cd := range days {
		logged++
		if cd.Status == nutrition.StatusAchieved {
			achieved++
		}
	}
	fmt.Printf("\nLogged %d days, goal reached on %d\n", logged, achieved)
	return nil
}

func statusMark(s nutrition.Status) string {
	switch s {
	case nutrition.StatusAchieved:
		return "*"
	case nutrition.StatusNear:
		return "~"
	default:
		return "."
	}
}
