package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/jobs"
)

const secret = "s3cret"

type fakeDispatcher struct {
	events []*core.GitHubEvent
	err    error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, event *core.GitHubEvent) error {
	if d.err != nil {
		return d.err
	}
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Stop() {}

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newRequest(eventType, body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-Hub-Signature-256", signature)
	return req
}

const pullRequestOpened = `{
  "action": "opened",
  "number": 7,
  "pull_request": {"number": 7, "title": "Add feature", "head": {"sha": "abc123"}},
  "repository": {"name": "hello", "full_name": "octo/hello", "owner": {"login": "octo"}},
  "installation": {"id": 42}
}`

const pullRequestClosed = `{
  "action": "closed",
  "number": 7,
  "pull_request": {"number": 7},
  "repository": {"name": "hello", "full_name": "octo/hello", "owner": {"login": "octo"}},
  "installation": {"id": 42}
}`

const summarizeComment = `{
  "action": "created",
  "issue": {"number": 9, "title": "Fix bug", "pull_request": {"url": "https://api.github.com/repos/octo/hello/pulls/9"}},
  "comment": {"body": "  /summarize \n"},
  "repository": {"name": "hello", "full_name": "octo/hello", "owner": {"login": "octo"}},
  "installation": {"id": 42}
}`

func TestWebhookHandler(t *testing.T) {
	tests := []struct {
		name          string
		eventType     string
		body          string
		signature     string
		dispatchErr   error
		wantStatus    int
		wantBody      string
		wantPR        int
		wantTrigger   string
		wantDispatch  bool
		wantHeadSHA   string
		wantPRTitle   string
		wantInstallID int64
	}{
		{
			name:          "pull request opened is dispatched",
			eventType:     "pull_request",
			body:          pullRequestOpened,
			wantStatus:    http.StatusAccepted,
			wantDispatch:  true,
			wantPR:        7,
			wantTrigger:   "opened",
			wantHeadSHA:   "abc123",
			wantPRTitle:   "Add feature",
			wantInstallID: 42,
		},
		{
			name:          "summarize comment is dispatched",
			eventType:     "issue_comment",
			body:          summarizeComment,
			wantStatus:    http.StatusAccepted,
			wantDispatch:  true,
			wantPR:        9,
			wantTrigger:   core.SummarizeCommand,
			wantPRTitle:   "Fix bug",
			wantInstallID: 42,
		},
		{
			name:       "closed pull request is ignored",
			eventType:  "pull_request",
			body:       pullRequestClosed,
			wantStatus: http.StatusOK,
			wantBody:   "Event ignored",
		},
		{
			name:       "bad signature",
			eventType:  "pull_request",
			body:       pullRequestOpened,
			signature:  "sha256=deadbeef",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unhandled event type",
			eventType:  "star",
			body:       `{"action":"created"}`,
			wantStatus: http.StatusOK,
			wantBody:   "Event type not handled",
		},
		{
			name:        "already queued is not an error",
			eventType:   "pull_request",
			body:        pullRequestOpened,
			dispatchErr: jobs.ErrAlreadyQueued,
			wantStatus:  http.StatusOK,
			wantBody:    "already queued",
		},
		{
			name:        "full queue",
			eventType:   "pull_request",
			body:        pullRequestOpened,
			dispatchErr: errors.New("job queue is full"),
			wantStatus:  http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDispatcher{err: tt.dispatchErr}
			h := NewWebhookHandler(secret, d, slog.New(slog.DiscardHandler))

			signature := tt.signature
			if signature == "" {
				signature = sign(tt.body)
			}
			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.eventType, tt.body, signature))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}

			if !tt.wantDispatch {
				assert.Empty(t, d.events)
				return
			}
			require.Len(t, d.events, 1)
			e := d.events[0]
			assert.Equal(t, "octo", e.RepoOwner)
			assert.Equal(t, "hello", e.RepoName)
			assert.Equal(t, "octo/hello", e.RepoFullName)
			assert.Equal(t, tt.wantPR, e.PRNumber)
			assert.Equal(t, tt.wantTrigger, e.Trigger)
			assert.Equal(t, tt.wantHeadSHA, e.HeadSHA)
			assert.Equal(t, tt.wantPRTitle, e.PRTitle)
			assert.Equal(t, tt.wantInstallID, e.InstallationID)
		})
	}
}
