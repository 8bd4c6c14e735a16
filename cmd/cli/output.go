package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/sevigo/pr-summarizer/internal/core"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

func printRunResult(result *core.RunResult, render bool, elapsed time.Duration) {
	fmt.Println()
	successColor.Printf("✓ %s#%d summarized in %s\n", result.Repository.FullName(), result.PRNumber, elapsed.Round(time.Millisecond))
	dimColor.Printf("  head %s, %d file(s), %d new commit summaries, %d from comments\n",
		truncateSHA(result.HeadSHA), len(result.Files), result.FreshCommits, len(result.Commits)-result.FreshCommits)

	if len(result.Files) > 0 {
		printFileSummaries(result.Files, render)
	}

	if len(result.Commits) > 0 {
		fmt.Println()
		titleColor.Println("Commits")
		for _, c := range result.Commits {
			boldColor.Printf("\n%s\n", truncateSHA(c.SHA))
			printMarkdown(c.Summary, render)
		}
	}

	fmt.Println()
	if result.PRSummaryPosted {
		titleColor.Println("Pull request summary")
		printMarkdown(result.PRSummary, render)
	} else {
		warnColor.Println("The head commit already had a summary; no pull request summary was posted.")
	}
}

func printFileSummaries(files []core.FileSummary, render bool) {
	fmt.Println()
	titleColor.Println("Files")
	for _, f := range files {
		boldColor.Printf("\n%s\n", f.Filename)
		printMarkdown(f.Summary, render)
	}
}

// printMarkdown prints text as is, or rendered for the terminal when render is set.
func printMarkdown(text string, render bool) {
	if !render {
		fmt.Println(text)
		return
	}
	out, err := renderMarkdown(text)
	if err != nil {
		warnColor.Printf("(could not render markdown: %v)\n", err)
		fmt.Println(text)
		return
	}
	fmt.Print(out)
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return r.Render(text)
}

func truncateSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
