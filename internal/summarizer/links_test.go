package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/pr-summarizer/internal/core"
)

func TestLinker_RoundTrip(t *testing.T) {
	files := []core.FileChange{
		{Filename: "a.go"},
		{Filename: "pkg/a.go"},
		{Filename: "docs/README.md"},
	}

	tests := []struct {
		name    string
		host    string
		summary string
		linked  string
	}{
		{
			name:    "two references",
			host:    "https://github.com",
			summary: "* Changed greeting [pkg/a.go], [docs/README.md]\n* Bumped a constant",
			linked: "* Changed greeting [a.go](https://github.com/octo/hello/blob/" + sha(5) + "/pkg/a.go), " +
				"[README.md](https://github.com/octo/hello/blob/" + sha(5) + "/docs/README.md)\n* Bumped a constant",
		},
		{
			name:    "basename collision stays single pass",
			host:    "https://github.com",
			summary: "* x [pkg/a.go] and [a.go]",
			linked: "* x [a.go](https://github.com/octo/hello/blob/" + sha(5) + "/pkg/a.go) and " +
				"[a.go](https://github.com/octo/hello/blob/" + sha(5) + "/a.go)",
		},
		{
			name:    "enterprise host with trailing slash",
			host:    "https://git.example.com/",
			summary: "* y [a.go]",
			linked:  "* y [a.go](https://git.example.com/octo/hello/blob/" + sha(5) + "/a.go)",
		},
		{
			name:    "no references",
			host:    "https://github.com",
			summary: "* nothing to link [unknown.go]",
			linked:  "* nothing to link [unknown.go]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLinker(tt.host)
			linked := l.LinkFileReferences(tt.summary, testRepo, sha(5), files)
			assert.Equal(t, tt.linked, linked)
			assert.Equal(t, tt.summary, l.CollapseFileLinks(linked))
		})
	}
}

func TestLinker_CollapseLeavesOtherLinks(t *testing.T) {
	l := NewLinker("https://github.com")

	in := "* see [docs](https://example.com/blob/" + sha(1) + "/x.md) and [short](https://github.com/o/r/blob/abc/x.go)"
	assert.Equal(t, in, l.CollapseFileLinks(in))
}
