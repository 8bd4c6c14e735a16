package summarizer

import (
	"strings"

	"github.com/sevigo/pr-summarizer/internal/core"
)

// Marker grammar. Comments written by earlier runs are read back with the
// same strings, so they must not change.
const (
	commitMarkerPrefix = "GPT resumo do sha "
	fileMarkerPrefix   = "GPT summary of "
	prSectionMarker    = "PR resumo para:"
)

// CommitMarker is the first line of a commit summary comment.
func CommitMarker(sha string) string {
	return commitMarkerPrefix + sha + ":"
}

// FileMarker is the first line of a file summary comment.
func FileMarker(blobSHA string) string {
	return fileMarkerPrefix + blobSHA + ":"
}

// FormatCommitComment renders the comment body for a commit summary.
func FormatCommitComment(sha, summary string) string {
	return CommitMarker(sha) + "\n\n" + summary
}

// FormatHeadComment renders the head commit comment, which also carries the
// pull request summary.
func FormatHeadComment(sha, summary, prSummary string) string {
	return FormatCommitComment(sha, summary) + "\n\n" + prSectionMarker + "\n\n" + prSummary
}

// FormatFileComment renders the comment body for a file summary.
func FormatFileComment(blobSHA, summary string) string {
	return FileMarker(blobSHA) + "\n" + summary
}

// ParseCommitComment extracts the commit summary from a commit marker comment,
// dropping the pull request section if present.
func ParseCommitComment(body string) string {
	if i := strings.Index(body, prSectionMarker); i >= 0 {
		body = strings.TrimSuffix(body[:i], "\n\n")
	}
	_, rest, found := strings.Cut(body, "\n")
	if !found {
		return ""
	}
	return strings.TrimPrefix(rest, "\n")
}

// ParseFileComment returns everything after the marker line.
func ParseFileComment(body string) string {
	_, rest, _ := strings.Cut(body, "\n")
	return rest
}

// FindCommitSummary looks for a comment that starts with the commit's marker.
func FindCommitSummary(comments []core.Comment, sha string) (string, bool) {
	marker := CommitMarker(sha)
	for _, c := range comments {
		if strings.HasPrefix(c.Body, marker) {
			return ParseCommitComment(c.Body), true
		}
	}
	return "", false
}

// FindFileSummary looks for a comment that starts with the blob's marker.
func FindFileSummary(comments []core.Comment, blobSHA string) (string, bool) {
	if blobSHA == "" {
		return "", false
	}
	marker := FileMarker(blobSHA)
	for _, c := range comments {
		if strings.HasPrefix(c.Body, marker) {
			return ParseFileComment(c.Body), true
		}
	}
	return "", false
}
