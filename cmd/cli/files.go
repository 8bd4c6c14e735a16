package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/pr-summarizer/internal/gitutil"
)

var filesCmd = &cobra.Command{
	Use:   "files [pr-url]",
	Short: "Run only the file stage and print the file summaries",
	Long: `Run only the file stage of a pull request and print the summaries.

Files with a summary review comment reuse it; at most one file is summarized
fresh per run. Nothing is posted.`,
	Args: cobra.ExactArgs(1),
	RunE: runFiles,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	filesCmd.Flags().BoolVar(&summarizeOpts.render, "render", false, "print the summaries rendered as markdown")
	filesCmd.Flags().StringVar(&summarizeOpts.repoConfig, "repo-config", "", "local repository config file")
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repo, number, err := gitutil.ParsePullRequestURL(args[0])
	if err != nil {
		return err
	}

	s, err := newSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.cleanup()

	repoCfg, err := s.repoConfig(ctx, repo, number)
	if err != nil {
		return err
	}
	pipeline, err := s.pipeline(repoCfg)
	if err != nil {
		return err
	}

	files, err := pipeline.Files().SummarizeFiles(ctx, repo, number)
	if err != nil {
		return fmt.Errorf("failed to summarize files: %w", err)
	}
	if len(files) == 0 {
		dimColor.Println("No files to summarize.")
		return nil
	}
	printFileSummaries(files, summarizeOpts.render)
	return nil
}
