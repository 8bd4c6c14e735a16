package github

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/dnaeon/go-vcr.v2/cassette"
	vcr "gopkg.in/dnaeon/go-vcr.v2/recorder"
)

// newRecordedClient returns a Client whose HTTP traffic is served from
// testdata/fixtures/<name>.yaml. Set PRS_VCR_MODE=record and GITHUB_TOKEN
// to refresh a cassette against the real API.
func newRecordedClient(t *testing.T, name string) Client {
	t.Helper()

	mode := vcr.ModeReplaying
	if os.Getenv("PRS_VCR_MODE") == "record" {
		mode = vcr.ModeRecording
	}

	// go-vcr appends the .yaml extension itself
	r, err := vcr.NewAsMode(filepath.Join("testdata", "fixtures", name), mode, nil)
	require.NoError(t, err)

	r.AddSaveFilter(func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	})
	t.Cleanup(func() {
		require.NoError(t, r.Stop())
	})

	client, err := NewHTTPClient(&http.Client{Transport: r}, "", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return client
}
