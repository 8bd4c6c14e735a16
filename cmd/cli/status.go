package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var statusOpts struct {
	json  bool
	limit int
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent summarization runs from the run history",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	statusCmd.Flags().BoolVar(&statusOpts.json, "json", false, "output runs as JSON")
	statusCmd.Flags().IntVar(&statusOpts.limit, "limit", 20, "number of runs to show")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("run history is disabled\n\nTip: set database.enabled in config.yaml or PRS_DATABASE_ENABLED=true")
	}

	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer cleanup()

	runs, err := store.ListRecentRuns(ctx, statusOpts.limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if statusOpts.json {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		dimColor.Println("No runs recorded yet.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	failedStyle := cellStyle.Foreground(lipgloss.Color("196"))

	failed := make(map[int]bool)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("WHEN", "PULL REQUEST", "HEAD", "TRIGGER", "FILES", "NEW", "CACHED", "PR SUMMARY", "ERROR")
	for i, run := range runs {
		posted := "no"
		if run.PRSummaryPosted {
			posted = "yes"
		}
		if run.Error != "" {
			failed[i] = true
		}
		t.Row(
			run.CreatedAt.Local().Format(time.DateTime),
			fmt.Sprintf("%s#%d", run.RepoFullName, run.PRNumber),
			truncateSHA(run.HeadSHA),
			run.Trigger,
			strconv.Itoa(run.FilesSummarized),
			strconv.Itoa(run.CommitsFresh),
			strconv.Itoa(run.CommitsCached),
			posted,
			truncate(run.Error, 40),
		)
	}
	t.StyleFunc(func(row, _ int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case failed[row]:
			return failedStyle
		default:
			return cellStyle
		}
	})

	fmt.Println(t)
	return nil
}
