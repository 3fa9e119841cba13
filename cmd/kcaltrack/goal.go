package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/pkg/models"
)

var goalCmd = &cobra.Command{
	Use:   "goal [kcal]",
	Short: "Show or set the daily calorie goal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoal,
}

func init() {
	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		g := a.goals.Get()
		suffix := ""
		if !a.goals.IsSet() {
			suffix = " (default)"
		}
		fmt.Printf("Daily goal: %d kcal%s\n", g.TargetCalories, suffix)
		return nil
	}

	target, err := strconv.Atoi(args[0])
	if err != nil || target <= 0 {
		return fmt.Errorf("goal must be a positive whole number of kcal, got %q", args[0])
	}

	a.goals.Save(models.DailyGoal{TargetCalories: target})
	if a.goals.Get().TargetCalories != target {
		return fmt.Errorf("goal could not be saved")
	}
	fmt.Printf("Daily goal set to %d kcal\n", target)
	return nil
}
