package summarizer

import "errors"

var (
	// ErrPromptTooLarge is returned when a prompt exceeds the configured length.
	ErrPromptTooLarge = errors.New("prompt too large")
	// ErrMissingFiles is returned when the host returns a commit without a files field.
	ErrMissingFiles = errors.New("commit has no files")
)

// Texts used in place of a summary when one cannot be produced. They end up in
// posted comments, so they are part of the comment format.
const (
	SummaryUnavailable    = "Error: couldn't generate summary"
	PRTooBig              = "Error: couldn't generate summary. PR too big"
	MergeCommitNotSummary = "Not generating summary for merge commits"
)
