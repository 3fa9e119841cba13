package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Show storage usage",
	RunE:  runStorage,
}

func init() {
	rootCmd.AddCommand(storageCmd)
}

func runStorage(cmd *cobra.Command, args []string) error {
	a, err := openApp(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.kv.Usage()
	if err != nil {
		return err
	}

	medium := a.cfg.GetDriver()
	if !u.Durable {
		medium = "memory (changes are not persisted)"
	}
	fmt.Printf("Medium:  %s\n", medium)
	fmt.Printf("Entries: %d\n", len(a.entries.List()))

	if u.Quota > 0 {
		pct := float64(u.UsedBytes) / float64(u.Quota) * 100
		fmt.Printf("Used:    %s of %s (%.1f%%)\n", humanize.IBytes(uint64(u.UsedBytes)), humanize.IBytes(uint64(u.Quota)), pct)
	} else {
		fmt.Printf("Used:    %s\n", humanize.IBytes(uint64(u.UsedBytes)))
	}

	if !u.Healthy {
		fmt.Println("Warning: storage is nearly full, delete old entries or run archive to free space")
	}
	return nil
}
