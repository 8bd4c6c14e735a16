// Package handler provides the HTTP handlers of the webhook server.
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/pr-summarizer/internal/core"
	"github.com/sevigo/pr-summarizer/internal/jobs"
)

// WebhookHandler processes incoming webhooks from GitHub.
type WebhookHandler struct {
	secret     []byte
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a handler that checks signatures against secret.
func NewWebhookHandler(secret string, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:     []byte(secret),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes GitHub webhook requests.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, h.secret)
	if err != nil {
		h.logger.Warn("invalid webhook payload signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	eventType := github.WebHookType(r)
	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		h.logger.Warn("could not parse webhook", "type", eventType, "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	switch e := event.(type) {
	case *github.PingEvent:
		_, _ = fmt.Fprint(w, "pong")
	case *github.PullRequestEvent:
		summarizeEvent, err := core.EventFromPullRequest(e)
		h.dispatch(r.Context(), w, eventType, summarizeEvent, err)
	case *github.IssueCommentEvent:
		summarizeEvent, err := core.EventFromIssueComment(e)
		h.dispatch(r.Context(), w, eventType, summarizeEvent, err)
	default:
		h.logger.Debug("ignoring unhandled webhook event type", "type", eventType)
		_, _ = fmt.Fprint(w, "Event type not handled")
	}
}

// dispatch queues a converted event. convErr is the error of the conversion.
func (h *WebhookHandler) dispatch(ctx context.Context, w http.ResponseWriter, eventType string, event *core.GitHubEvent, convErr error) {
	if convErr != nil {
		if errors.Is(convErr, core.ErrEventIgnored) {
			h.logger.Debug("ignoring webhook", "type", eventType, "reason", convErr.Error())
			_, _ = fmt.Fprint(w, "Event ignored")
			return
		}
		h.logger.Warn("malformed webhook", "type", eventType, "error", convErr)
		http.Error(w, "Malformed event", http.StatusBadRequest)
		return
	}

	err := h.dispatcher.Dispatch(ctx, event)
	switch {
	case errors.Is(err, jobs.ErrAlreadyQueued):
		h.logger.Info("summarize job already queued", "repo", event.RepoFullName, "pr", event.PRNumber)
		_, _ = fmt.Fprint(w, "Summarize job already queued")
		return
	case err != nil:
		h.logger.Error("failed to dispatch summarize job", "error", err, "repo", event.RepoFullName, "pr", event.PRNumber)
		http.Error(w, "Failed to start summarize job", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("summarize job dispatched", "repo", event.RepoFullName, "pr", event.PRNumber, "trigger", event.Trigger)
	w.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprint(w, "Summarize job accepted")
}
