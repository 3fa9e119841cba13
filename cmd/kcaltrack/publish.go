package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/nutrition"
	"github.com/jgoulah/kcaltrack/internal/publisher"
)

var (
	publishSince string
	publishUntil string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish daily summaries to MQTT",
	Long: `Publishes a retained summary for each logged day in range to
<topic_prefix>/daily/<date>, and today's summary to <topic_prefix>/state.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishSince, "since", "7d", "Only publish days since this date (YYYY-MM-DD or relative like 7d)")
	publishCmd.Flags().StringVar(&publishUntil, "until", "today", "Only publish days until this date (YYYY-MM-DD)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Publish started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	since, err := parseDate(publishSince)
	if err != nil {
		return fmt.Errorf("parsing --since date: %w", err)
	}
	until, err := parseDate(publishUntil)
	if err != nil {
		return fmt.Errorf("parsing --until date: %w", err)
	}

	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	// Check if MQTT is configured
	if !a.cfg.MQTT.Enabled {
		return fmt.Errorf("MQTT is not enabled in config")
	}

	pub, err := publisher.New(a.cfg.MQTT, a.cfg.GetTopicPrefix())
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	target := a.goals.Get().TargetCalories
	all := a.entries.List()
	groups := nutrition.GroupByDate(nutrition.FilterByRange(all, since, until))
	days := nutrition.Days(groups)

	if len(days) == 0 {
		fmt.Println("No entries in date range")
	}

	published := 0
	for i, day := range days {
		payload := publisher.NewDayPayload(day, groups[day], target)
		fmt.Printf("[%d/%d] Publishing %s (%.0f kcal)... ", i+1, len(days), day, payload.Calories)
		if err := pub.PublishDay(payload); err != nil {
			fmt.Printf("FAILED: %v\n", err)
			continue
		}
		fmt.Printf("✓\n")
		published++
	}

	today := nutrition.DayKey(time.Now())
	state := publisher.NewDayPayload(today, nutrition.FilterByDate(all, time.Now()), target)
	if err := pub.PublishState(state); err != nil {
		return fmt.Errorf("publishing state: %w", err)
	}

	fmt.Printf("\nPublished %d/%d days, state %.0f/%d kcal\n", published, len(days), state.Calories, target)
	return nil
}
