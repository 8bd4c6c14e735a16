package core

import "time"

// SummaryRun is the audit record of one summarization run, stored in the database.
// It is never read back as a cache; the pull request comments are the cache.
type SummaryRun struct {
	ID              string    `db:"id" json:"id"`
	RepoFullName    string    `db:"repo_full_name" json:"repo_full_name"`
	PRNumber        int       `db:"pr_number" json:"pr_number"`
	HeadSHA         string    `db:"head_sha" json:"head_sha"`
	Trigger         string    `db:"trigger" json:"trigger"`
	FilesSummarized int       `db:"files_summarized" json:"files_summarized"`
	CommitsFresh    int       `db:"commits_fresh" json:"commits_fresh"`
	CommitsCached   int       `db:"commits_cached" json:"commits_cached"`
	PRSummaryPosted bool      `db:"pr_summary_posted" json:"pr_summary_posted"`
	Error           string    `db:"error" json:"error,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// NewSummaryRun builds the audit record for a finished run. runErr may be nil.
func NewSummaryRun(result *RunResult, trigger string, runErr error) *SummaryRun {
	run := &SummaryRun{
		RepoFullName:    result.Repository.FullName(),
		PRNumber:        result.PRNumber,
		HeadSHA:         result.HeadSHA,
		Trigger:         trigger,
		FilesSummarized: len(result.Files),
		CommitsFresh:    result.FreshCommits,
		CommitsCached:   len(result.Commits) - result.FreshCommits,
		PRSummaryPosted: result.PRSummaryPosted,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	return run
}
