package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/kcaltrack/internal/archive"
	"github.com/jgoulah/kcaltrack/internal/nutrition"
)

var (
	archiveThrough string
	archiveAll     bool
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy entry photos to S3",
	Long: `Uploads inline entry photos to the configured S3 bucket and replaces them with
s3:// links, freeing local storage. By default only photos six or more days old are
archived, before the seven day retention removes them.`,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().StringVar(&archiveThrough, "through", "6d", "Archive photos dated on or before this date (YYYY-MM-DD or Nd)")
	archiveCmd.Flags().BoolVar(&archiveAll, "all", false, "Archive every inline photo regardless of date")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	through := ""
	if !archiveAll {
		t, err := parseDate(archiveThrough)
		if err != nil {
			return fmt.Errorf("parsing --through date: %w", err)
		}
		through = nutrition.DayKey(t)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	arch, err := archive.New(ctx, a.cfg.Archive, a.cfg.GetArchivePrefix(), a.logger)
	if err != nil {
		return fmt.Errorf("creating archiver: %w", err)
	}

	res, err := arch.Run(ctx, a.entries, through)
	fmt.Printf("Archived %d photos, skipped %d, failed %d\n", res.Archived, res.Skipped, len(res.Failed))
	if err != nil {
		return fmt.Errorf("archiving photos: %w", err)
	}
	return nil
}
