package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/imgsrc/internal/uploader"
	"github.com/spf13/cobra"
)

var (
	historyLimit    int
	historyFailures bool
	historyPrune    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history [album]",
	Short: "Show uploaded photos from the local journal",
	Long: `Show photos recorded in the local upload journal, newest first.

Pass an album name to restrict the listing to that album. With --failures
the failed upload attempts are shown instead. --prune removes failure
records older than the given age.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries (0=all)")
	historyCmd.Flags().BoolVar(&historyFailures, "failures", false, "Show failed attempts")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "Delete failure records older than this (e.g. 720h)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	j, err := uploader.OpenJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()

	if historyPrune > 0 {
		deleted, err := j.CleanupFailures(ctx, historyPrune)
		if err != nil {
			return err
		}
		logger.Info().Int64("deleted", deleted).Msg("Pruned failure records")
	}

	if historyFailures {
		failures, err := j.Failures(ctx, historyLimit)
		if err != nil {
			return err
		}
		printFailures(os.Stdout, failures)
		return nil
	}

	album := ""
	if len(args) > 0 {
		album = args[0]
	}

	entries, err := j.List(ctx, album, historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No uploads recorded.")
		return nil
	}

	total, err := j.Count(ctx, album)
	if err != nil {
		return err
	}

	printEntries(os.Stdout, entries)
	fmt.Printf("\n%d of %d uploads shown\n", len(entries), total)
	return nil
}
