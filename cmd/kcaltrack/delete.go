package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete food entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	for _, id := range args {
		if _, ok := a.entries.Get(id); !ok {
			fmt.Printf("No entry with id %s\n", id)
			continue
		}
		outcome, err := a.entries.Delete(id)
		if err != nil {
			return fmt.Errorf("deleting %s: %w", id, err)
		}
		reportOutcome(outcome)
		fmt.Printf("Deleted %s\n", id)
	}
	return nil
}
