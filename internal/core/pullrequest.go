package core

import "fmt"

// Repository identifies a repository on the hosting service.
type Repository struct {
	Owner string
	Name  string
}

// FullName returns the "owner/name" form of the repository.
func (r Repository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// FileChange is one changed file: its name, blob hash and unified-diff patch.
type FileChange struct {
	Filename string
	SHA      string
	Patch    string
}

// CommitRef is an entry of a pull request's commit listing.
type CommitRef struct {
	SHA     string
	Parents []string
}

// Commit is a fetched commit object. A nil Files slice means the host
// response carried no files at all, which is different from an empty commit.
type Commit struct {
	SHA     string
	Parents []string
	Files   []FileChange
}

// IsMerge reports whether the commit has anything but exactly one parent.
func (c *Commit) IsMerge() bool {
	return len(c.Parents) != 1
}

// Comparison is the result of comparing two commits. URL points at the
// comparison resource that carries the full list of patches.
type Comparison struct {
	URL   string
	Files []FileChange
}

// Comment is a pull request comment, either an issue comment or a review comment.
type Comment struct {
	ID   int64
	Body string
}

// FileSummary is the summary of one changed file.
type FileSummary struct {
	Filename string
	Summary  string
}

// CommitSummary is the summary of one commit.
type CommitSummary struct {
	SHA     string
	Summary string
}

// CommitRun is the outcome of the commit stage of a run.
type CommitRun struct {
	HeadSHA   string
	Summaries []CommitSummary

	// Fresh counts commits summarized in this run, as opposed to read from comments.
	Fresh int
	// HeadSummarized is set when the head commit was freshly summarized in this run.
	HeadSummarized  bool
	PRSummary       string
	PRSummaryPosted bool
}

// RunResult is the outcome of a full summarization run over a pull request.
type RunResult struct {
	Repository      Repository
	PRNumber        int
	HeadSHA         string
	Files           []FileSummary
	Commits         []CommitSummary
	FreshCommits    int
	PRSummary       string
	PRSummaryPosted bool
}
