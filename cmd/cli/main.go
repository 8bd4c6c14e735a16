// Command pr-summarizer summarizes a GitHub pull request from the command line.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
