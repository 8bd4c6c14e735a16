// Package gitutil parses pull request references given on the command line.
package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sevigo/pr-summarizer/internal/core"
)

var (
	// https://<host>/<owner>/<repo>/pull/<n>, optionally followed by a tab such as /files.
	prURLRegex = regexp.MustCompile(`^(?:https?://)?[^/\s]+/([^/\s]+)/([^/\s]+)/pull/(\d+)(?:/(?:files|commits|checks))?$`)
	// <owner>/<repo>#<n>
	prShortRegex = regexp.MustCompile(`^([^/\s#]+)/([^/\s#]+)#(\d+)$`)
)

// ParsePullRequestURL extracts the repository and number from a pull request
// URL on any GitHub host, or from the owner/repo#number shorthand.
func ParsePullRequestURL(ref string) (core.Repository, int, error) {
	ref = strings.TrimSuffix(strings.TrimSpace(ref), "/")

	matches := prURLRegex.FindStringSubmatch(ref)
	if matches == nil {
		matches = prShortRegex.FindStringSubmatch(ref)
	}
	if matches == nil {
		return core.Repository{}, 0, fmt.Errorf("invalid pull request reference: %q", ref)
	}

	number, err := strconv.Atoi(matches[3])
	if err != nil || number <= 0 {
		return core.Repository{}, 0, fmt.Errorf("invalid pull request number %q", matches[3])
	}

	return core.Repository{Owner: matches[1], Name: matches[2]}, number, nil
}
