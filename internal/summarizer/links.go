package summarizer

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/sevigo/pr-summarizer/internal/core"
)

const maxCollapseRounds = 100

// Linker converts [path] references in a summary into links to the file at a
// commit, and back.
type Linker struct {
	hostURL  string
	linkExpr *regexp.Regexp
}

// NewLinker creates a Linker for the given web host, e.g. https://github.com.
func NewLinker(hostURL string) *Linker {
	host := strings.TrimSuffix(hostURL, "/")
	expr := `\[[^\]]*\]\(` + regexp.QuoteMeta(host) + `/[^/\s()]+/[^/\s()]+/blob/[0-9a-fA-F]{40}/([^()\s]+)\)`
	return &Linker{hostURL: host, linkExpr: regexp.MustCompile(expr)}
}

// FileURL is the web address of a file at a commit.
func (l *Linker) FileURL(repo core.Repository, sha, filename string) string {
	return fmt.Sprintf("%s/%s/%s/blob/%s/%s", l.hostURL, repo.Owner, repo.Name, sha, filename)
}

// LinkFileReferences replaces every literal [filename] of the given files with
// a markdown link labelled with the file's base name.
func (l *Linker) LinkFileReferences(summary string, repo core.Repository, sha string, files []core.FileChange) string {
	if len(files) == 0 {
		return summary
	}
	pairs := make([]string, 0, 2*len(files))
	for _, f := range files {
		link := fmt.Sprintf("[%s](%s)", path.Base(f.Filename), l.FileURL(repo, sha, f.Filename))
		pairs = append(pairs, "["+f.Filename+"]", link)
	}
	// A single replacer pass never rewrites its own output.
	return strings.NewReplacer(pairs...).Replace(summary)
}

// CollapseFileLinks turns file links produced by LinkFileReferences back into
// [filename] references.
func (l *Linker) CollapseFileLinks(summary string) string {
	for range maxCollapseRounds {
		if !l.linkExpr.MatchString(summary) {
			break
		}
		summary = l.linkExpr.ReplaceAllString(summary, "[${1}]")
	}
	return summary
}
